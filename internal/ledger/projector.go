package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceAsOf replays the company's journal up to and including date
// and returns the account's signed balance. The sign follows the
// account's normal side, so a healthy Cash account and a healthy
// Sales account both report positive.
func (s *Service) BalanceAsOf(companyID, accountCode string, date time.Time) (decimal.Decimal, error) {
	state, err := s.state(companyID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	state.mu.RLock()
	defer state.mu.RUnlock()

	acc, ok := state.accounts[accountCode]
	if !ok {
		return decimal.Decimal{}, ErrAccountNotFound
	}
	normal := acc.Type.NormalSide()
	var balance decimal.Decimal
	for _, tx := range state.journal {
		if tx.Date.After(date) {
			continue
		}
		for _, line := range tx.Lines {
			if line.AccountCode != accountCode {
				continue
			}
			if line.Side == normal {
				balance = balance.Add(line.Amount)
			} else {
				balance = balance.Sub(line.Amount)
			}
		}
	}
	return balance, nil
}

// TrialBalance returns gross debit and credit totals for every account
// in the chart as of date. Rows are sorted by account code and include
// deactivated accounts.
func (s *Service) TrialBalance(companyID string, date time.Time) ([]TrialBalanceRow, error) {
	state, err := s.state(companyID)
	if err != nil {
		return nil, err
	}
	state.mu.RLock()
	defer state.mu.RUnlock()

	totals := make(map[string]*TrialBalanceRow, len(state.accounts))
	for _, tx := range state.journal {
		if tx.Date.After(date) {
			continue
		}
		for _, line := range tx.Lines {
			row := totals[line.AccountCode]
			if row == nil {
				row = &TrialBalanceRow{}
				totals[line.AccountCode] = row
			}
			if line.Side == SideDebit {
				row.Debit = row.Debit.Add(line.Amount)
			} else {
				row.Credit = row.Credit.Add(line.Amount)
			}
		}
	}

	accounts := make([]Account, 0, len(state.accounts))
	for _, acc := range state.accounts {
		accounts = append(accounts, *acc)
	}
	sortAccounts(accounts)

	rows := make([]TrialBalanceRow, 0, len(accounts))
	for _, acc := range accounts {
		row := TrialBalanceRow{Account: acc}
		if agg, ok := totals[acc.Code]; ok {
			row.Debit = agg.Debit
			row.Credit = agg.Credit
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// VerifyBalanced is the primary consistency check: total debits must
// equal total credits across the whole trial balance. A non-nil error
// means the journal engine's invariant was violated upstream.
func (s *Service) VerifyBalanced(companyID string, date time.Time) error {
	rows, err := s.TrialBalance(companyID, date)
	if err != nil {
		return err
	}
	var debit, credit decimal.Decimal
	for _, row := range rows {
		debit = debit.Add(row.Debit)
		credit = credit.Add(row.Credit)
	}
	if !debit.Equal(credit) {
		return ErrLedgerImbalance
	}
	return nil
}

// Transactions returns a copy of the company's journal in posting
// order, optionally bounded by date (inclusive on both ends). Zero
// time bounds are open.
func (s *Service) Transactions(companyID string, from, to time.Time) ([]Transaction, error) {
	state, err := s.state(companyID)
	if err != nil {
		return nil, err
	}
	state.mu.RLock()
	defer state.mu.RUnlock()

	out := make([]Transaction, 0, len(state.journal))
	for _, tx := range state.journal {
		if !from.IsZero() && tx.Date.Before(from) {
			continue
		}
		if !to.IsZero() && tx.Date.After(to) {
			continue
		}
		cp := tx
		cp.Lines = append([]Line(nil), tx.Lines...)
		out = append(out, cp)
	}
	return out, nil
}

// Movement sums debit and credit activity per account strictly within
// the window, used by the income statement where opening balances are
// excluded.
func (s *Service) Movement(companyID string, from, to time.Time) ([]TrialBalanceRow, error) {
	state, err := s.state(companyID)
	if err != nil {
		return nil, err
	}
	state.mu.RLock()
	defer state.mu.RUnlock()

	totals := make(map[string]*TrialBalanceRow, len(state.accounts))
	for _, tx := range state.journal {
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		for _, line := range tx.Lines {
			row := totals[line.AccountCode]
			if row == nil {
				row = &TrialBalanceRow{}
				totals[line.AccountCode] = row
			}
			if line.Side == SideDebit {
				row.Debit = row.Debit.Add(line.Amount)
			} else {
				row.Credit = row.Credit.Add(line.Amount)
			}
		}
	}

	accounts := make([]Account, 0, len(state.accounts))
	for _, acc := range state.accounts {
		accounts = append(accounts, *acc)
	}
	sortAccounts(accounts)

	rows := make([]TrialBalanceRow, 0, len(totals))
	for _, acc := range accounts {
		if agg, ok := totals[acc.Code]; ok {
			rows = append(rows, TrialBalanceRow{Account: acc, Debit: agg.Debit, Credit: agg.Credit})
		}
	}
	return rows, nil
}
