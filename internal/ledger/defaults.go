package ledger

// AccountSeed is one entry of the default chart of accounts.
type AccountSeed struct {
	Code string
	Name string
	Type AccountType
}

// DefaultChart returns the standard UK chart of accounts installed for
// companies registered with SeedChart. Codes follow the usual ranges:
// 1xxx assets, 2xxx liabilities, 3xxx equity, 4xxx income, 5xxx
// expenses.
func DefaultChart() []AccountSeed {
	return []AccountSeed{
		{Code: "1000", Name: "Cash", Type: AccountTypeAsset},
		{Code: "1100", Name: "Accounts Receivable", Type: AccountTypeAsset},
		{Code: "1200", Name: "Inventory", Type: AccountTypeAsset},
		{Code: "1500", Name: "Equipment", Type: AccountTypeAsset},
		{Code: "1600", Name: "Vehicles", Type: AccountTypeAsset},

		{Code: "2000", Name: "Accounts Payable", Type: AccountTypeLiability},
		{Code: "2100", Name: "VAT Payable", Type: AccountTypeLiability},
		{Code: "2500", Name: "Bank Loan", Type: AccountTypeLiability},
		{Code: "2600", Name: "Credit Card", Type: AccountTypeLiability},

		{Code: "3000", Name: "Owner's Capital", Type: AccountTypeEquity},
		{Code: "3900", Name: "Retained Earnings", Type: AccountTypeEquity},

		{Code: "4000", Name: "Product Sales", Type: AccountTypeIncome},
		{Code: "4100", Name: "Service Revenue", Type: AccountTypeIncome},
		{Code: "4200", Name: "Consulting Income", Type: AccountTypeIncome},

		{Code: "5000", Name: "Cost of Goods Sold", Type: AccountTypeExpense},
		{Code: "5100", Name: "Salary Expense", Type: AccountTypeExpense},
		{Code: "5200", Name: "Rent Expense", Type: AccountTypeExpense},
		{Code: "5300", Name: "Utilities Expense", Type: AccountTypeExpense},
		{Code: "5400", Name: "Marketing Expense", Type: AccountTypeExpense},
		{Code: "5500", Name: "Office Supplies", Type: AccountTypeExpense},
		{Code: "5600", Name: "Travel Expense", Type: AccountTypeExpense},
		{Code: "5700", Name: "Professional Fees", Type: AccountTypeExpense},
	}
}
