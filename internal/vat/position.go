package vat

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

// JournalPort exposes the slice of the ledger the VAT position needs.
type JournalPort interface {
	Transactions(companyID string, from, to time.Time) ([]ledger.Transaction, error)
}

// Position summarises the VAT booked inside a period. Output VAT is
// collected on credit lines (sales), input VAT is paid on debit lines
// (purchases). Net is output minus input: positive means payable to
// HMRC, negative means receivable.
type Position struct {
	CompanyID string
	From      time.Time
	To        time.Time
	Output    decimal.Decimal
	Input     decimal.Decimal
	Net       decimal.Decimal
	// ByCode splits the taxable net amounts per VAT code, keeping
	// zero-rated and exempt supplies distinguishable in returns.
	ByCode map[string]decimal.Decimal
}

// Service derives VAT positions from posted transactions.
type Service struct {
	journal JournalPort
}

// NewService constructs the VAT position service.
func NewService(journal JournalPort) *Service {
	return &Service{journal: journal}
}

// PositionFor aggregates output minus input VAT booked in the window.
func (s *Service) PositionFor(companyID string, from, to time.Time) (Position, error) {
	txs, err := s.journal.Transactions(companyID, from, to)
	if err != nil {
		return Position{}, err
	}
	pos := Position{
		CompanyID: companyID,
		From:      from,
		To:        to,
		ByCode:    make(map[string]decimal.Decimal),
	}
	for _, tx := range txs {
		for _, line := range tx.Lines {
			if line.VATCode == "" {
				continue
			}
			if line.Side == ledger.SideCredit {
				pos.Output = pos.Output.Add(line.VATAmount)
				pos.ByCode[line.VATCode] = pos.ByCode[line.VATCode].Add(line.Amount)
			} else {
				pos.Input = pos.Input.Add(line.VATAmount)
				pos.ByCode[line.VATCode] = pos.ByCode[line.VATCode].Sub(line.Amount)
			}
		}
	}
	pos.Net = pos.Output.Sub(pos.Input)
	return pos, nil
}
