package reports

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

// ErrUnbalancedLedger indicates the balance sheet's accounting
// equation does not hold. It means the underlying journal is corrupt;
// a correctly guarded ledger can never produce it.
var ErrUnbalancedLedger = errors.New("reports: balance sheet does not balance")

// currentYearEarningsLabel is the synthetic equity line that folds the
// period's net income into the balance sheet.
const currentYearEarningsLabel = "Current Year Earnings"

// BalanceSheetLine is one account row with its closing balance.
type BalanceSheetLine struct {
	Code    string
	Name    string
	Balance decimal.Decimal
}

// BalanceSheetSection groups lines under one statement heading.
type BalanceSheetSection struct {
	Label string
	Lines []BalanceSheetLine
	Total decimal.Decimal
}

// BalanceSheet is the statement of financial position as of a date.
type BalanceSheet struct {
	CompanyID                 string
	AsOf                      time.Time
	Assets                    BalanceSheetSection
	Liabilities               BalanceSheetSection
	Equity                    BalanceSheetSection
	TotalLiabilitiesAndEquity decimal.Decimal
}

// BuildBalanceSheet classifies closing balances into assets,
// liabilities and equity. Net income to date is folded into equity as
// a Current Year Earnings line so the equation holds on a live
// ledger. Zero-balance accounts are kept: an empty row still tells
// the reader the account exists.
func BuildBalanceSheet(companyID string, asOf time.Time, rows []ledger.TrialBalanceRow) (BalanceSheet, error) {
	bs := BalanceSheet{
		CompanyID:   companyID,
		AsOf:        asOf,
		Assets:      BalanceSheetSection{Label: "Assets"},
		Liabilities: BalanceSheetSection{Label: "Liabilities"},
		Equity:      BalanceSheetSection{Label: "Equity"},
	}
	var netIncome decimal.Decimal
	for _, row := range rows {
		balance := closing(row)
		switch row.Account.Type {
		case ledger.AccountTypeAsset:
			appendLine(&bs.Assets, row, balance)
		case ledger.AccountTypeLiability:
			appendLine(&bs.Liabilities, row, balance)
		case ledger.AccountTypeEquity:
			appendLine(&bs.Equity, row, balance)
		case ledger.AccountTypeIncome:
			netIncome = netIncome.Add(balance)
		case ledger.AccountTypeExpense:
			netIncome = netIncome.Sub(balance)
		}
	}
	if !netIncome.IsZero() {
		bs.Equity.Lines = append(bs.Equity.Lines, BalanceSheetLine{
			Name:    currentYearEarningsLabel,
			Balance: netIncome,
		})
		bs.Equity.Total = bs.Equity.Total.Add(netIncome)
	}
	bs.TotalLiabilitiesAndEquity = bs.Liabilities.Total.Add(bs.Equity.Total)
	if !bs.Assets.Total.Equal(bs.TotalLiabilitiesAndEquity) {
		return BalanceSheet{}, ErrUnbalancedLedger
	}
	return bs, nil
}

func appendLine(sec *BalanceSheetSection, row ledger.TrialBalanceRow, balance decimal.Decimal) {
	sec.Lines = append(sec.Lines, BalanceSheetLine{
		Code:    row.Account.Code,
		Name:    row.Account.Name,
		Balance: balance,
	})
	sec.Total = sec.Total.Add(balance)
}
