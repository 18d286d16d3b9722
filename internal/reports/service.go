package reports

import (
	"time"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

// LedgerPort exposes the projections the statement builders consume.
type LedgerPort interface {
	Company(id string) (ledger.Company, error)
	TrialBalance(companyID string, date time.Time) ([]ledger.TrialBalanceRow, error)
	Movement(companyID string, from, to time.Time) ([]ledger.TrialBalanceRow, error)
}

// Service derives financial statements for one company at a time.
type Service struct {
	ledger LedgerPort
}

// NewService constructs the reporting layer over a ledger port.
func NewService(port LedgerPort) *Service {
	return &Service{ledger: port}
}

// TrialBalance produces the company's trial balance as of a date.
func (s *Service) TrialBalance(companyID string, asOf time.Time) (TrialBalance, error) {
	if _, err := s.ledger.Company(companyID); err != nil {
		return TrialBalance{}, err
	}
	rows, err := s.ledger.TrialBalance(companyID, asOf)
	if err != nil {
		return TrialBalance{}, err
	}
	return BuildTrialBalance(companyID, asOf, rows), nil
}

// BalanceSheet produces the company's balance sheet as of a date.
func (s *Service) BalanceSheet(companyID string, asOf time.Time) (BalanceSheet, error) {
	if _, err := s.ledger.Company(companyID); err != nil {
		return BalanceSheet{}, err
	}
	rows, err := s.ledger.TrialBalance(companyID, asOf)
	if err != nil {
		return BalanceSheet{}, err
	}
	return BuildBalanceSheet(companyID, asOf, rows)
}

// IncomeStatement produces the company's profit and loss statement
// over a date range.
func (s *Service) IncomeStatement(companyID string, from, to time.Time) (IncomeStatement, error) {
	if _, err := s.ledger.Company(companyID); err != nil {
		return IncomeStatement{}, err
	}
	rows, err := s.ledger.Movement(companyID, from, to)
	if err != nil {
		return IncomeStatement{}, err
	}
	return BuildIncomeStatement(companyID, from, to, rows), nil
}
