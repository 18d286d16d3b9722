package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Post validates and appends a balanced transaction to the company's
// journal. Validation happens entirely before any write: on error the
// journal and the archive are untouched. Appends for one company are
// serialized by the company mutex; different companies post in
// parallel.
func (s *Service) Post(ctx context.Context, in PostingInput) (Transaction, error) {
	state, err := s.state(in.CompanyID)
	if err != nil {
		return Transaction{}, err
	}
	if len(in.Lines) < 2 {
		return Transaction{}, ErrInsufficientLines
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	lines, err := s.buildLines(state, in.Lines)
	if err != nil {
		return Transaction{}, err
	}

	tx := Transaction{
		ID:          uuid.New(),
		CompanyID:   in.CompanyID,
		Date:        in.Date,
		Description: in.Description,
		Lines:       lines,
		PostedAt:    s.now().UTC(),
	}
	if err := s.append(ctx, state, tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Reverse posts a new transaction mirroring the original with every
// line's side flipped. A transaction can be reversed at most once.
func (s *Service) Reverse(ctx context.Context, txID uuid.UUID) (Transaction, error) {
	s.txMu.RLock()
	companyID, ok := s.txIndex[txID]
	s.txMu.RUnlock()
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	state, err := s.state(companyID)
	if err != nil {
		return Transaction{}, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	if _, done := state.reversed[txID]; done {
		return Transaction{}, ErrAlreadyReversed
	}
	var original *Transaction
	for i := range state.journal {
		if state.journal[i].ID == txID {
			original = &state.journal[i]
			break
		}
	}
	if original == nil {
		return Transaction{}, ErrTransactionNotFound
	}

	lines := make([]Line, len(original.Lines))
	for i, line := range original.Lines {
		lines[i] = Line{
			AccountCode: line.AccountCode,
			Side:        line.Side.Opposite(),
			Amount:      line.Amount,
			VATCode:     line.VATCode,
			VATAmount:   line.VATAmount,
		}
	}
	reversal := Transaction{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Date:        original.Date,
		Description: "Reversal of " + original.Description,
		Lines:       lines,
		PostedAt:    s.now().UTC(),
		ReversalOf:  original.ID,
	}
	if err := s.append(ctx, state, reversal); err != nil {
		return Transaction{}, err
	}
	state.reversed[original.ID] = reversal.ID
	return reversal, nil
}

// buildLines validates the requested lines against the chart and
// computes VAT amounts. Caller holds the company write lock.
func (s *Service) buildLines(state *companyState, inputs []LineInput) ([]Line, error) {
	var debits, credits decimal.Decimal
	lines := make([]Line, 0, len(inputs))
	for _, in := range inputs {
		if !in.Side.Valid() {
			return nil, ErrInvalidSide
		}
		if !in.Amount.IsPositive() || !in.Amount.Equal(in.Amount.Round(2)) {
			return nil, ErrInvalidAmount
		}
		acc, ok := state.accounts[in.AccountCode]
		if !ok {
			return nil, ErrAccountNotFound
		}
		if !acc.Active {
			return nil, ErrAccountInactive
		}
		line := Line{
			AccountCode: in.AccountCode,
			Side:        in.Side,
			Amount:      in.Amount,
			VATCode:     in.VATCode,
		}
		if in.VATCode != "" {
			if s.vat == nil {
				return nil, ErrUnknownVATCode
			}
			vat, err := s.vat.Compute(in.Amount, in.VATCode)
			if err != nil {
				return nil, err
			}
			line.VATAmount = vat
		}
		if in.Side == SideDebit {
			debits = debits.Add(in.Amount)
		} else {
			credits = credits.Add(in.Amount)
		}
		lines = append(lines, line)
	}
	// Exact equality at two decimals, no rounding tolerance.
	if !debits.Equal(credits) {
		return nil, ErrUnbalancedEntry
	}
	return lines, nil
}

// append writes the transaction to the archive first, then to the
// in-memory journal, so a failed archive write leaves no partial
// state observable to readers.
func (s *Service) append(ctx context.Context, state *companyState, tx Transaction) error {
	if s.archive != nil {
		if err := s.archive.AppendTransaction(ctx, EncodeTransaction(tx)); err != nil {
			return err
		}
	}
	state.journal = append(state.journal, tx)
	s.txMu.Lock()
	s.txIndex[tx.ID] = tx.CompanyID
	s.txMu.Unlock()
	return nil
}
