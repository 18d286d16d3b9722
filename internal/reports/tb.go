// Package reports derives financial statements from ledger
// projections. Builders are pure: they take projected rows in and
// return statements out, so the same inputs always yield the same
// report.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

// TrialBalanceRow is one account's gross activity in the statement.
type TrialBalanceRow struct {
	Code   string
	Name   string
	Type   ledger.AccountType
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// TrialBalance lists every account with its gross debit and credit
// totals. On a healthy ledger TotalDebit always equals TotalCredit.
type TrialBalance struct {
	CompanyID   string
	AsOf        time.Time
	Rows        []TrialBalanceRow
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Balanced    bool
}

// BuildTrialBalance shapes projected account totals into a statement.
func BuildTrialBalance(companyID string, asOf time.Time, rows []ledger.TrialBalanceRow) TrialBalance {
	tb := TrialBalance{CompanyID: companyID, AsOf: asOf}
	for _, row := range rows {
		tb.Rows = append(tb.Rows, TrialBalanceRow{
			Code:   row.Account.Code,
			Name:   row.Account.Name,
			Type:   row.Account.Type,
			Debit:  row.Debit,
			Credit: row.Credit,
		})
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
	}
	tb.Balanced = tb.TotalDebit.Equal(tb.TotalCredit)
	return tb
}

// closing returns the account's signed closing balance. The sign
// follows the account's normal side.
func closing(row ledger.TrialBalanceRow) decimal.Decimal {
	if row.Account.Type.NormalSide() == ledger.SideDebit {
		return row.Debit.Sub(row.Credit)
	}
	return row.Credit.Sub(row.Debit)
}
