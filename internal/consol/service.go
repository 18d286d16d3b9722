package consol

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ledgerline/ledgerline/internal/reports"
)

// ReportsPort exposes per-company statement generation.
type ReportsPort interface {
	BalanceSheet(companyID string, asOf time.Time) (reports.BalanceSheet, error)
}

// Service builds consolidated statements across companies.
type Service struct {
	reports ReportsPort
	rules   []Rule
}

// NewService constructs the consolidation layer with its configured
// elimination set. Invalid rules are rejected up front.
func NewService(reportsSvc ReportsPort, rules []Rule) (*Service, error) {
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, err
		}
	}
	return &Service{reports: reportsSvc, rules: rules}, nil
}

// Consolidated sums each company's balance sheet line by line into a
// combined statement. Per-company projections run in parallel; each
// one reads an immutable snapshot, so the result is deterministic for
// a given log state.
func (s *Service) Consolidated(ctx context.Context, companyIDs []string, asOf time.Time) (Statement, error) {
	if len(companyIDs) == 0 {
		return Statement{}, ErrNoCompanies
	}

	sheets := make(map[string]reports.BalanceSheet, len(companyIDs))
	var mu sync.Mutex
	g, _ := errgroup.WithContext(ctx)
	for _, id := range companyIDs {
		id := id
		g.Go(func() error {
			bs, err := s.reports.BalanceSheet(id, asOf)
			if err != nil {
				return fmt.Errorf("consolidate %s: %w", id, err)
			}
			mu.Lock()
			sheets[id] = bs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Statement{}, err
	}

	applied, err := s.applyEliminations(companyIDs, sheets)
	if err != nil {
		return Statement{}, err
	}

	stmt := Statement{
		AsOf:         asOf,
		Companies:    append([]string(nil), companyIDs...),
		Assets:       Section{Label: "Assets"},
		Liabilities:  Section{Label: "Liabilities"},
		Equity:       Section{Label: "Equity"},
		Eliminations: applied,
	}
	for _, id := range companyIDs {
		bs := sheets[id]
		mergeSection(&stmt.Assets, bs.Assets)
		mergeSection(&stmt.Liabilities, bs.Liabilities)
		mergeSection(&stmt.Equity, bs.Equity)
	}
	sortSection(&stmt.Assets)
	sortSection(&stmt.Liabilities)
	sortSection(&stmt.Equity)
	stmt.TotalLiabilitiesAndEquity = stmt.Liabilities.Total.Add(stmt.Equity.Total)
	return stmt, nil
}

// applyEliminations nets configured inter-company pairs to zero inside
// the per-company sheets before merging. Rules whose companies are not
// part of this consolidation are skipped.
func (s *Service) applyEliminations(companyIDs []string, sheets map[string]reports.BalanceSheet) ([]AppliedElimination, error) {
	included := make(map[string]bool, len(companyIDs))
	for _, id := range companyIDs {
		included[id] = true
	}
	var applied []AppliedElimination
	for _, rule := range s.rules {
		if !included[rule.SourceCompany] || !included[rule.TargetCompany] {
			continue
		}
		src := sheets[rule.SourceCompany]
		tgt := sheets[rule.TargetCompany]
		srcAmount, srcOK := findBalance(&src, rule.SourceAccount)
		tgtAmount, tgtOK := findBalance(&tgt, rule.TargetAccount)
		if !srcOK && !tgtOK {
			continue
		}
		if !srcOK || !tgtOK || !srcAmount.Abs().Equal(tgtAmount.Abs()) {
			return nil, fmt.Errorf("%w: %s (%s vs %s)", ErrEliminationMismatch, rule.Name,
				srcAmount.StringFixed(2), tgtAmount.StringFixed(2))
		}
		zeroBalance(&src, rule.SourceAccount)
		zeroBalance(&tgt, rule.TargetAccount)
		sheets[rule.SourceCompany] = src
		sheets[rule.TargetCompany] = tgt
		applied = append(applied, AppliedElimination{Rule: rule, Amount: srcAmount.Abs()})
	}
	return applied, nil
}

func mergeSection(dst *Section, src reports.BalanceSheetSection) {
	for _, line := range src.Lines {
		merged := false
		for i := range dst.Lines {
			if dst.Lines[i].Code != "" && dst.Lines[i].Code == line.Code {
				dst.Lines[i].Balance = dst.Lines[i].Balance.Add(line.Balance)
				merged = true
				break
			}
		}
		if !merged {
			dst.Lines = append(dst.Lines, Line{Code: line.Code, Name: line.Name, Balance: line.Balance})
		}
		dst.Total = dst.Total.Add(line.Balance)
	}
}

func sortSection(sec *Section) {
	sort.Slice(sec.Lines, func(i, j int) bool { return sec.Lines[i].Code < sec.Lines[j].Code })
}

func findBalance(bs *reports.BalanceSheet, code string) (decimal.Decimal, bool) {
	for _, sec := range []*reports.BalanceSheetSection{&bs.Assets, &bs.Liabilities, &bs.Equity} {
		for _, line := range sec.Lines {
			if line.Code == code {
				return line.Balance, true
			}
		}
	}
	return decimal.Decimal{}, false
}

func zeroBalance(bs *reports.BalanceSheet, code string) {
	for _, sec := range []*reports.BalanceSheetSection{&bs.Assets, &bs.Liabilities, &bs.Equity} {
		for i := range sec.Lines {
			if sec.Lines[i].Code == code {
				sec.Total = sec.Total.Sub(sec.Lines[i].Balance)
				sec.Lines[i].Balance = decimal.Zero
				return
			}
		}
	}
}
