package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

// IncomeStatementLine is one income or expense account's net activity
// within the reporting period.
type IncomeStatementLine struct {
	Code   string
	Name   string
	Amount decimal.Decimal
}

// IncomeStatement summarises revenue and expenses over a date range.
type IncomeStatement struct {
	CompanyID    string
	From         time.Time
	To           time.Time
	Income       []IncomeStatementLine
	Expenses     []IncomeStatementLine
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	NetIncome    decimal.Decimal
}

// BuildIncomeStatement shapes in-period movement into a profit and
// loss statement. Income accounts report credit minus debit, expense
// accounts debit minus credit; accounts with no activity in the
// window are omitted.
func BuildIncomeStatement(companyID string, from, to time.Time, rows []ledger.TrialBalanceRow) IncomeStatement {
	is := IncomeStatement{CompanyID: companyID, From: from, To: to}
	for _, row := range rows {
		switch row.Account.Type {
		case ledger.AccountTypeIncome:
			if row.Debit.IsZero() && row.Credit.IsZero() {
				continue
			}
			amount := row.Credit.Sub(row.Debit)
			is.Income = append(is.Income, IncomeStatementLine{
				Code:   row.Account.Code,
				Name:   row.Account.Name,
				Amount: amount,
			})
			is.TotalIncome = is.TotalIncome.Add(amount)
		case ledger.AccountTypeExpense:
			if row.Debit.IsZero() && row.Credit.IsZero() {
				continue
			}
			amount := row.Debit.Sub(row.Credit)
			is.Expenses = append(is.Expenses, IncomeStatementLine{
				Code:   row.Account.Code,
				Name:   row.Account.Name,
				Amount: amount,
			})
			is.TotalExpense = is.TotalExpense.Add(amount)
		}
	}
	is.NetIncome = is.TotalIncome.Sub(is.TotalExpense)
	return is
}
