package pg

import (
	"context"
	"fmt"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

// LoadCompanies reads all registered companies.
func (a *Archive) LoadCompanies(ctx context.Context) ([]ledger.Company, error) {
	rows, err := a.pool.Query(ctx, `SELECT id, name, base_currency, vat_registered, created_at FROM companies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store/pg: load companies: %w", err)
	}
	defer rows.Close()
	var out []ledger.Company
	for rows.Next() {
		var c ledger.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.BaseCurrency, &c.VATRegistered, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// LoadAccounts reads one company's chart of accounts.
func (a *Archive) LoadAccounts(ctx context.Context, companyID string) ([]ledger.Account, error) {
	rows, err := a.pool.Query(ctx, `SELECT code, name, type, active, created_at FROM accounts WHERE company_id = $1 ORDER BY code`, companyID)
	if err != nil {
		return nil, fmt.Errorf("store/pg: load accounts: %w", err)
	}
	defer rows.Close()
	var out []ledger.Account
	for rows.Next() {
		var acc ledger.Account
		var typ string
		if err := rows.Scan(&acc.Code, &acc.Name, &typ, &acc.Active, &acc.CreatedAt); err != nil {
			return nil, err
		}
		acc.Type = ledger.AccountType(typ)
		out = append(out, acc)
	}
	return out, rows.Err()
}

// LoadTransactions streams the archived record sequence in posting
// order.
func (a *Archive) LoadTransactions(ctx context.Context) ([]ledger.Record, error) {
	rows, err := a.pool.Query(ctx, `SELECT id, company_id, to_char(date, 'YYYY-MM-DD'), description, posted_at, COALESCE(reversal_of::text, '') FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("store/pg: load transactions: %w", err)
	}
	defer rows.Close()
	var recs []ledger.Record
	index := make(map[string]int)
	for rows.Next() {
		var rec ledger.Record
		if err := rows.Scan(&rec.ID, &rec.CompanyID, &rec.Date, &rec.Description, &rec.PostedAt, &rec.ReversalOf); err != nil {
			return nil, err
		}
		index[rec.ID] = len(recs)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lineRows, err := a.pool.Query(ctx, `SELECT tx_id, account_code, side, amount::text, vat_code, vat_amount::text
FROM transaction_lines ORDER BY tx_id, line_no`)
	if err != nil {
		return nil, fmt.Errorf("store/pg: load lines: %w", err)
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var txID string
		var line ledger.RecordLine
		var side string
		if err := lineRows.Scan(&txID, &line.AccountCode, &side, &line.Amount, &line.VATCode, &line.VATAmount); err != nil {
			return nil, err
		}
		line.Side = ledger.Side(side)
		if line.VATCode == "" {
			line.VATAmount = ""
		}
		i, ok := index[txID]
		if !ok {
			continue
		}
		recs[i].Lines = append(recs[i].Lines, line)
	}
	return recs, lineRows.Err()
}

// Restore rebuilds the in-memory ledger from the archive: companies,
// charts, then the full transaction replay.
func (a *Archive) Restore(ctx context.Context, svc *ledger.Service) error {
	companies, err := a.LoadCompanies(ctx)
	if err != nil {
		return err
	}
	for _, c := range companies {
		accounts, err := a.LoadAccounts(ctx, c.ID)
		if err != nil {
			return err
		}
		if err := svc.RestoreCompany(c, accounts); err != nil {
			return err
		}
	}
	recs, err := a.LoadTransactions(ctx)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if err := svc.Replay(rec); err != nil {
			return fmt.Errorf("store/pg: replay %s: %w", rec.ID, err)
		}
	}
	return nil
}
