// Package pg persists the ledger's durable representation: companies,
// charts of accounts, and the append-only transaction record stream.
// The in-memory ledger is rebuilt from this store at startup; when the
// two disagree, the record stream wins.
package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/platform/db"
)

// Archive stores ledger records in PostgreSQL.
type Archive struct {
	pool *pgxpool.Pool
}

// NewArchive constructs the archive.
func NewArchive(pool *pgxpool.Pool) *Archive {
	return &Archive{pool: pool}
}

// Schema is the DDL for the archive tables, applied by the migrate
// step of deployments and by tests.
const Schema = `
CREATE TABLE IF NOT EXISTS companies (
	id             text PRIMARY KEY,
	name           text NOT NULL,
	base_currency  text NOT NULL,
	vat_registered boolean NOT NULL DEFAULT false,
	created_at     timestamptz NOT NULL
);
CREATE TABLE IF NOT EXISTS accounts (
	company_id text NOT NULL REFERENCES companies(id),
	code       text NOT NULL,
	name       text NOT NULL,
	type       text NOT NULL,
	active     boolean NOT NULL DEFAULT true,
	created_at timestamptz NOT NULL,
	PRIMARY KEY (company_id, code)
);
CREATE TABLE IF NOT EXISTS transactions (
	id          uuid PRIMARY KEY,
	company_id  text NOT NULL REFERENCES companies(id),
	date        date NOT NULL,
	description text NOT NULL,
	posted_at   timestamptz NOT NULL,
	reversal_of uuid NULL,
	seq         bigserial
);
CREATE TABLE IF NOT EXISTS transaction_lines (
	tx_id        uuid NOT NULL REFERENCES transactions(id),
	line_no      int NOT NULL,
	account_code text NOT NULL,
	side         text NOT NULL,
	amount       numeric(18,2) NOT NULL,
	vat_code     text NOT NULL DEFAULT '',
	vat_amount   numeric(18,2) NOT NULL DEFAULT 0,
	PRIMARY KEY (tx_id, line_no)
);
`

// Migrate applies the archive schema.
func (a *Archive) Migrate(ctx context.Context) error {
	if _, err := a.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("store/pg: migrate: %w", err)
	}
	return nil
}

// SaveCompany upserts a company row.
func (a *Archive) SaveCompany(ctx context.Context, c ledger.Company) error {
	_, err := a.pool.Exec(ctx, `INSERT INTO companies (id, name, base_currency, vat_registered, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, base_currency = EXCLUDED.base_currency, vat_registered = EXCLUDED.vat_registered`,
		c.ID, c.Name, c.BaseCurrency, c.VATRegistered, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("store/pg: save company: %w", err)
	}
	return nil
}

// SaveAccount upserts one chart of accounts row.
func (a *Archive) SaveAccount(ctx context.Context, companyID string, acc ledger.Account) error {
	_, err := a.pool.Exec(ctx, `INSERT INTO accounts (company_id, code, name, type, active, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (company_id, code) DO UPDATE SET name = EXCLUDED.name, type = EXCLUDED.type, active = EXCLUDED.active`,
		companyID, acc.Code, acc.Name, string(acc.Type), acc.Active, acc.CreatedAt)
	if err != nil {
		return fmt.Errorf("store/pg: save account: %w", err)
	}
	return nil
}

// AppendTransaction writes a transaction and all its lines in one
// database transaction, matching the journal engine's all-or-nothing
// contract.
func (a *Archive) AppendTransaction(ctx context.Context, rec ledger.Record) error {
	err := db.WithTx(ctx, a.pool, func(tx pgx.Tx) error {
		var reversalOf any
		if rec.ReversalOf != "" {
			reversalOf = rec.ReversalOf
		}
		if _, err := tx.Exec(ctx, `INSERT INTO transactions (id, company_id, date, description, posted_at, reversal_of)
VALUES ($1,$2,$3,$4,$5,$6)`, rec.ID, rec.CompanyID, rec.Date, rec.Description, rec.PostedAt, reversalOf); err != nil {
			return err
		}
		for i, line := range rec.Lines {
			vatAmount := line.VATAmount
			if vatAmount == "" {
				vatAmount = "0"
			}
			if _, err := tx.Exec(ctx, `INSERT INTO transaction_lines (tx_id, line_no, account_code, side, amount, vat_code, vat_amount)
VALUES ($1,$2,$3,$4,$5,$6,$7)`, rec.ID, i, line.AccountCode, string(line.Side), line.Amount, line.VATCode, vatAmount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store/pg: append transaction: %w", err)
	}
	return nil
}
