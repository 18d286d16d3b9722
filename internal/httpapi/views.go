package httpapi

import (
	"time"

	"github.com/ledgerline/ledgerline/internal/consol"
	"github.com/ledgerline/ledgerline/internal/reports"
	"github.com/ledgerline/ledgerline/internal/vat"
)

// View maps keep wire amounts as fixed two-decimal strings so clients
// never see float artefacts.

func trialBalanceView(tb reports.TrialBalance, asOf time.Time) map[string]any {
	rows := make([]map[string]any, 0, len(tb.Rows))
	for _, row := range tb.Rows {
		rows = append(rows, map[string]any{
			"code":   row.Code,
			"name":   row.Name,
			"type":   string(row.Type),
			"debit":  row.Debit.StringFixed(2),
			"credit": row.Credit.StringFixed(2),
		})
	}
	return map[string]any{
		"company_id":   tb.CompanyID,
		"as_of":        asOf.Format(dateLayout),
		"rows":         rows,
		"total_debit":  tb.TotalDebit.StringFixed(2),
		"total_credit": tb.TotalCredit.StringFixed(2),
		"balanced":     tb.Balanced,
	}
}

func balanceSheetSectionView(sec reports.BalanceSheetSection) map[string]any {
	lines := make([]map[string]any, 0, len(sec.Lines))
	for _, line := range sec.Lines {
		lines = append(lines, map[string]any{
			"code":    line.Code,
			"name":    line.Name,
			"balance": line.Balance.StringFixed(2),
		})
	}
	return map[string]any{
		"label": sec.Label,
		"lines": lines,
		"total": sec.Total.StringFixed(2),
	}
}

func balanceSheetView(bs reports.BalanceSheet, asOf time.Time) map[string]any {
	return map[string]any{
		"company_id":                   bs.CompanyID,
		"as_of":                        asOf.Format(dateLayout),
		"assets":                       balanceSheetSectionView(bs.Assets),
		"liabilities":                  balanceSheetSectionView(bs.Liabilities),
		"equity":                       balanceSheetSectionView(bs.Equity),
		"total_liabilities_and_equity": bs.TotalLiabilitiesAndEquity.StringFixed(2),
	}
}

func incomeStatementView(is reports.IncomeStatement, from, to time.Time) map[string]any {
	lineViews := func(lines []reports.IncomeStatementLine) []map[string]any {
		out := make([]map[string]any, 0, len(lines))
		for _, line := range lines {
			out = append(out, map[string]any{
				"code":   line.Code,
				"name":   line.Name,
				"amount": line.Amount.StringFixed(2),
			})
		}
		return out
	}
	return map[string]any{
		"company_id":    is.CompanyID,
		"from":          from.Format(dateLayout),
		"to":            to.Format(dateLayout),
		"income":        lineViews(is.Income),
		"expenses":      lineViews(is.Expenses),
		"total_income":  is.TotalIncome.StringFixed(2),
		"total_expense": is.TotalExpense.StringFixed(2),
		"net_income":    is.NetIncome.StringFixed(2),
	}
}

func vatPositionView(pos vat.Position) map[string]any {
	byCode := make(map[string]string, len(pos.ByCode))
	for code, amount := range pos.ByCode {
		byCode[code] = amount.StringFixed(2)
	}
	return map[string]any{
		"company_id": pos.CompanyID,
		"from":       pos.From.Format(dateLayout),
		"to":         pos.To.Format(dateLayout),
		"output_vat": pos.Output.StringFixed(2),
		"input_vat":  pos.Input.StringFixed(2),
		"net_vat":    pos.Net.StringFixed(2),
		"by_code":    byCode,
	}
}

func vatRateView(r vat.Rate) map[string]any {
	return map[string]any{
		"code":    r.Code,
		"percent": r.Percent.String(),
		"exempt":  r.Exempt,
	}
}

func consolSectionView(sec consol.Section) map[string]any {
	lines := make([]map[string]any, 0, len(sec.Lines))
	for _, line := range sec.Lines {
		lines = append(lines, map[string]any{
			"code":    line.Code,
			"name":    line.Name,
			"balance": line.Balance.StringFixed(2),
		})
	}
	return map[string]any{
		"label": sec.Label,
		"lines": lines,
		"total": sec.Total.StringFixed(2),
	}
}

func consolStatementView(stmt consol.Statement) map[string]any {
	eliminations := make([]map[string]any, 0, len(stmt.Eliminations))
	for _, e := range stmt.Eliminations {
		eliminations = append(eliminations, map[string]any{
			"rule":   e.Rule.Name,
			"amount": e.Amount.StringFixed(2),
		})
	}
	return map[string]any{
		"as_of":                        stmt.AsOf.Format(dateLayout),
		"companies":                    stmt.Companies,
		"assets":                       consolSectionView(stmt.Assets),
		"liabilities":                  consolSectionView(stmt.Liabilities),
		"equity":                       consolSectionView(stmt.Equity),
		"total_liabilities_and_equity": stmt.TotalLiabilitiesAndEquity.StringFixed(2),
		"eliminations":                 eliminations,
	}
}
