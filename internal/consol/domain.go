// Package consol merges per-company balance sheets into a combined
// group statement, netting configured inter-company balances.
package consol

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Rule pairs an inter-company receivable with the matching payable.
// During consolidation both balances are netted to zero; if the two
// sides disagree the mismatch is surfaced, never ignored.
type Rule struct {
	Name          string
	SourceCompany string
	SourceAccount string
	TargetCompany string
	TargetAccount string
}

// Validate ensures the rule is coherent.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("consol: rule name required")
	}
	if r.SourceCompany == "" || r.TargetCompany == "" {
		return errors.New("consol: company pair required")
	}
	if r.SourceCompany == r.TargetCompany {
		return errors.New("consol: companies must differ")
	}
	if strings.TrimSpace(r.SourceAccount) == "" || strings.TrimSpace(r.TargetAccount) == "" {
		return errors.New("consol: account codes required")
	}
	return nil
}

// AppliedElimination records one netted pair in the statement output.
type AppliedElimination struct {
	Rule   Rule
	Amount decimal.Decimal
}

// Line is one merged account row in the combined statement. Accounts
// from different companies merge by code.
type Line struct {
	Code    string
	Name    string
	Balance decimal.Decimal
}

// Section groups combined lines under one balance sheet heading.
type Section struct {
	Label string
	Lines []Line
	Total decimal.Decimal
}

// Statement is the consolidated balance sheet across companies.
type Statement struct {
	AsOf                      time.Time
	Companies                 []string
	Assets                    Section
	Liabilities               Section
	Equity                    Section
	TotalLiabilitiesAndEquity decimal.Decimal
	Eliminations              []AppliedElimination
}

// ErrEliminationMismatch indicates an inter-company pair whose two
// sides do not carry equal amounts.
var ErrEliminationMismatch = errors.New("consol: elimination pair amounts do not match")

// ErrNoCompanies indicates consolidation was requested over an empty set.
var ErrNoCompanies = errors.New("consol: at least one company required")
