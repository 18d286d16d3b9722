// Package vat implements UK VAT computation and the per-period VAT
// position derived from the journal.
package vat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

// ErrUnknownCode is returned for VAT codes missing from the rate table.
var ErrUnknownCode = ledger.ErrUnknownVATCode

// Rate binds a VAT code to its percentage. Exempt supplies carry a
// zero rate but are reported separately from zero-rated ones, so the
// flag is kept alongside the percentage.
type Rate struct {
	Code    string
	Percent decimal.Decimal
	Exempt  bool
}

// Standard UK VAT codes.
const (
	CodeStandard = "STANDARD"
	CodeReduced  = "REDUCED"
	CodeZero     = "ZERO"
	CodeExempt   = "EXEMPT"
)

// DefaultTable returns the UK rate table: Standard 20%, Reduced 5%,
// Zero 0%, Exempt.
func DefaultTable() map[string]Rate {
	return map[string]Rate{
		CodeStandard: {Code: CodeStandard, Percent: decimal.NewFromInt(20)},
		CodeReduced:  {Code: CodeReduced, Percent: decimal.NewFromInt(5)},
		CodeZero:     {Code: CodeZero, Percent: decimal.Zero},
		CodeExempt:   {Code: CodeExempt, Percent: decimal.Zero, Exempt: true},
	}
}

// ParseTable reads a rate table from its configuration form, e.g.
// "STANDARD=20,REDUCED=5,ZERO=0,EXEMPT=exempt". Codes are upper-cased.
func ParseTable(spec string) (map[string]Rate, error) {
	table := make(map[string]Rate)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("vat: malformed rate entry %q", part)
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		value = strings.TrimSpace(value)
		if strings.EqualFold(value, "exempt") {
			table[code] = Rate{Code: code, Percent: decimal.Zero, Exempt: true}
			continue
		}
		pct, err := decimal.NewFromString(value)
		if err != nil || pct.IsNegative() {
			return nil, fmt.Errorf("vat: invalid rate for %s: %q", code, value)
		}
		table[code] = Rate{Code: code, Percent: pct}
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("vat: empty rate table")
	}
	return table, nil
}

// Calculator computes VAT amounts from a configured rate table.
type Calculator struct {
	table map[string]Rate
}

// NewCalculator constructs a Calculator. A nil table falls back to the
// UK defaults.
func NewCalculator(table map[string]Rate) *Calculator {
	if table == nil {
		table = DefaultTable()
	}
	return &Calculator{table: table}
}

// Compute returns the VAT amount for a net line amount. Rounding is
// applied per line to two decimals, matching UK practice, so the
// audit trail reproduces line by line.
func (c *Calculator) Compute(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	rate, ok := c.table[strings.ToUpper(code)]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrUnknownCode, code)
	}
	if rate.Exempt {
		return decimal.Zero, nil
	}
	return amount.Mul(rate.Percent).Div(decimal.NewFromInt(100)).Round(2), nil
}

// Rates lists the configured rate table sorted by code.
func (c *Calculator) Rates() []Rate {
	out := make([]Rate, 0, len(c.table))
	for _, r := range c.table {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
