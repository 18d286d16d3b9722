package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record is the stable serialized form of a posted transaction. It is
// the durable persistence and backup representation: a ledger is fully
// reconstructible from a sequence of records alone.
type Record struct {
	ID          string       `json:"id"`
	CompanyID   string       `json:"company_id"`
	Date        string       `json:"date"`
	Description string       `json:"description"`
	PostedAt    time.Time    `json:"posted_at"`
	ReversalOf  string       `json:"reversal_of,omitempty"`
	Lines       []RecordLine `json:"lines"`
}

// RecordLine is one serialized journal line. Amounts travel as fixed
// two-decimal strings so no reader can reintroduce float drift.
type RecordLine struct {
	AccountCode string `json:"account_code"`
	Side        Side   `json:"side"`
	Amount      string `json:"amount"`
	VATCode     string `json:"vat_code,omitempty"`
	VATAmount   string `json:"vat_amount,omitempty"`
}

// recordDate is the wire format for transaction dates.
const recordDate = "2006-01-02"

// EncodeTransaction converts a posted transaction to its record form.
func EncodeTransaction(tx Transaction) Record {
	rec := Record{
		ID:          tx.ID.String(),
		CompanyID:   tx.CompanyID,
		Date:        tx.Date.Format(recordDate),
		Description: tx.Description,
		PostedAt:    tx.PostedAt,
		Lines:       make([]RecordLine, 0, len(tx.Lines)),
	}
	if tx.ReversalOf != uuid.Nil {
		rec.ReversalOf = tx.ReversalOf.String()
	}
	for _, line := range tx.Lines {
		rl := RecordLine{
			AccountCode: line.AccountCode,
			Side:        line.Side,
			Amount:      line.Amount.StringFixed(2),
			VATCode:     line.VATCode,
		}
		if line.VATCode != "" {
			rl.VATAmount = line.VATAmount.StringFixed(2)
		}
		rec.Lines = append(rec.Lines, rl)
	}
	return rec
}

// DecodeTransaction parses a record back into a transaction.
func DecodeTransaction(rec Record) (Transaction, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return Transaction{}, ErrBadRecord
	}
	date, err := time.Parse(recordDate, rec.Date)
	if err != nil {
		return Transaction{}, ErrBadRecord
	}
	tx := Transaction{
		ID:          id,
		CompanyID:   rec.CompanyID,
		Date:        date,
		Description: rec.Description,
		PostedAt:    rec.PostedAt,
		Lines:       make([]Line, 0, len(rec.Lines)),
	}
	if rec.ReversalOf != "" {
		rev, err := uuid.Parse(rec.ReversalOf)
		if err != nil {
			return Transaction{}, ErrBadRecord
		}
		tx.ReversalOf = rev
	}
	for _, rl := range rec.Lines {
		amount, err := decimal.NewFromString(rl.Amount)
		if err != nil {
			return Transaction{}, ErrBadRecord
		}
		line := Line{
			AccountCode: rl.AccountCode,
			Side:        rl.Side,
			Amount:      amount,
			VATCode:     rl.VATCode,
		}
		if rl.VATAmount != "" {
			vat, err := decimal.NewFromString(rl.VATAmount)
			if err != nil {
				return Transaction{}, ErrBadRecord
			}
			line.VATAmount = vat
		}
		tx.Lines = append(tx.Lines, line)
	}
	return tx, nil
}

// Replay appends an archived transaction to the in-memory journal
// without re-validating or re-archiving it. The archive is the source
// of truth during restore: if derived state ever disagrees with the
// record stream, the records win.
func (s *Service) Replay(rec Record) error {
	tx, err := DecodeTransaction(rec)
	if err != nil {
		return err
	}
	state, err := s.state(tx.CompanyID)
	if err != nil {
		return err
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	state.journal = append(state.journal, tx)
	if tx.ReversalOf != uuid.Nil {
		state.reversed[tx.ReversalOf] = tx.ID
	}
	s.txMu.Lock()
	s.txIndex[tx.ID] = tx.CompanyID
	s.txMu.Unlock()
	return nil
}

// RestoreCompany installs a company and its chart during replay,
// bypassing the archive.
func (s *Service) RestoreCompany(c Company, accounts []Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[c.ID]; ok {
		return ErrDuplicateCompany
	}
	state := &companyState{
		company:  c,
		accounts: make(map[string]*Account, len(accounts)),
		reversed: make(map[uuid.UUID]uuid.UUID),
	}
	for _, acc := range accounts {
		cp := acc
		state.accounts[acc.Code] = &cp
	}
	s.companies[c.ID] = state
	return nil
}
