package reports

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

func row(code, name string, accType ledger.AccountType, debit, credit string) ledger.TrialBalanceRow {
	return ledger.TrialBalanceRow{
		Account: ledger.Account{Code: code, Name: name, Type: accType, Active: true},
		Debit:   decimal.RequireFromString(debit),
		Credit:  decimal.RequireFromString(credit),
	}
}

var asOf = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

func TestBuildTrialBalance(t *testing.T) {
	rows := []ledger.TrialBalanceRow{
		row("1000", "Cash", ledger.AccountTypeAsset, "1250.00", "0.00"),
		row("3000", "Owner's Capital", ledger.AccountTypeEquity, "0.00", "1000.00"),
		row("4000", "Product Sales", ledger.AccountTypeIncome, "0.00", "250.00"),
	}
	tb := BuildTrialBalance("acme", asOf, rows)
	if len(tb.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(tb.Rows))
	}
	if tb.TotalDebit.StringFixed(2) != "1250.00" || tb.TotalCredit.StringFixed(2) != "1250.00" {
		t.Fatalf("totals %s / %s", tb.TotalDebit, tb.TotalCredit)
	}
	if !tb.Balanced {
		t.Fatalf("expected balanced trial balance")
	}
}

func TestBuildBalanceSheetFoldsNetIncomeIntoEquity(t *testing.T) {
	// Capital 1000 plus an un-closed sale of 250: assets 1250 must be
	// explained by capital 1000 plus current year earnings 250.
	rows := []ledger.TrialBalanceRow{
		row("1000", "Cash", ledger.AccountTypeAsset, "1250.00", "0.00"),
		row("3000", "Owner's Capital", ledger.AccountTypeEquity, "0.00", "1000.00"),
		row("4000", "Product Sales", ledger.AccountTypeIncome, "0.00", "250.00"),
	}
	bs, err := BuildBalanceSheet("acme", asOf, rows)
	if err != nil {
		t.Fatalf("build balance sheet: %v", err)
	}
	if bs.Assets.Total.StringFixed(2) != "1250.00" {
		t.Fatalf("assets total %s", bs.Assets.Total)
	}
	if bs.TotalLiabilitiesAndEquity.StringFixed(2) != "1250.00" {
		t.Fatalf("liabilities+equity %s", bs.TotalLiabilitiesAndEquity)
	}
	last := bs.Equity.Lines[len(bs.Equity.Lines)-1]
	if last.Name != "Current Year Earnings" || last.Balance.StringFixed(2) != "250.00" {
		t.Fatalf("unexpected earnings line %+v", last)
	}
}

func TestBuildBalanceSheetDetectsCorruption(t *testing.T) {
	rows := []ledger.TrialBalanceRow{
		row("1000", "Cash", ledger.AccountTypeAsset, "500.00", "0.00"),
		row("3000", "Owner's Capital", ledger.AccountTypeEquity, "0.00", "400.00"),
	}
	_, err := BuildBalanceSheet("acme", asOf, rows)
	if !errors.Is(err, ErrUnbalancedLedger) {
		t.Fatalf("expected ErrUnbalancedLedger, got %v", err)
	}
}

func TestBuildIncomeStatement(t *testing.T) {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := []ledger.TrialBalanceRow{
		row("4000", "Product Sales", ledger.AccountTypeIncome, "0.00", "1200.00"),
		row("4100", "Service Revenue", ledger.AccountTypeIncome, "50.00", "350.00"),
		row("5200", "Rent Expense", ledger.AccountTypeExpense, "700.00", "0.00"),
		// Balance sheet accounts never show up on the P&L.
		row("1000", "Cash", ledger.AccountTypeAsset, "2000.00", "900.00"),
		// No activity in the window, omitted.
		row("5300", "Utilities Expense", ledger.AccountTypeExpense, "0.00", "0.00"),
	}
	is := BuildIncomeStatement("acme", from, asOf, rows)
	if len(is.Income) != 2 || len(is.Expenses) != 1 {
		t.Fatalf("line counts %d income %d expenses", len(is.Income), len(is.Expenses))
	}
	if is.TotalIncome.StringFixed(2) != "1500.00" {
		t.Fatalf("total income %s", is.TotalIncome)
	}
	if is.TotalExpense.StringFixed(2) != "700.00" {
		t.Fatalf("total expense %s", is.TotalExpense)
	}
	if is.NetIncome.StringFixed(2) != "800.00" {
		t.Fatalf("net income %s", is.NetIncome)
	}
}
