package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType enumerates chart of accounts categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// Valid reports whether the type is one of the five closed variants.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// NormalSide returns the side on which this account type carries a
// positive balance. Derived, never stored, so it cannot drift.
func (t AccountType) NormalSide() Side {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// Side marks a journal line as debit or credit.
type Side string

const (
	SideDebit  Side = "DEBIT"
	SideCredit Side = "CREDIT"
)

// Valid reports whether the side is DEBIT or CREDIT.
func (s Side) Valid() bool {
	return s == SideDebit || s == SideCredit
}

// Opposite returns the flipped side, used when reversing entries.
func (s Side) Opposite() Side {
	if s == SideDebit {
		return SideCredit
	}
	return SideDebit
}

// Company owns a chart of accounts and a journal. Accounts are never
// shared between companies.
type Company struct {
	ID            string
	Name          string
	BaseCurrency  string
	VATRegistered bool
	CreatedAt     time.Time
}

// Account is a chart of accounts node belonging to one company.
// Deactivated accounts stay visible for historical reporting but
// reject new journal lines.
type Account struct {
	Code      string
	Name      string
	Type      AccountType
	Active    bool
	CreatedAt time.Time
}

// Line is a single debit or credit leg of a transaction. Amounts are
// positive; the side carries the direction. VATCode and VATAmount are
// set only for lines that carry tax.
type Line struct {
	AccountCode string
	Side        Side
	Amount      decimal.Decimal
	VATCode     string
	VATAmount   decimal.Decimal
}

// Transaction is an immutable posted journal entry. Corrections are
// made by posting a reversal, never by mutation.
type Transaction struct {
	ID          uuid.UUID
	CompanyID   string
	Date        time.Time
	Description string
	Lines       []Line
	PostedAt    time.Time
	// ReversalOf is set on reversing entries and references the
	// original transaction.
	ReversalOf uuid.UUID
}

// IsReversal reports whether the transaction reverses another one.
func (t Transaction) IsReversal() bool {
	return t.ReversalOf != uuid.Nil
}

// LineInput describes a requested journal line before validation.
type LineInput struct {
	AccountCode string
	Side        Side
	Amount      decimal.Decimal
	VATCode     string
}

// PostingInput groups the fields required to post a transaction.
type PostingInput struct {
	CompanyID   string
	Date        time.Time
	Description string
	Lines       []LineInput
}

// Balance pairs an account with its signed balance as of some date.
// The sign follows the account's normal side: a debit-normal account
// with more debits than credits reports a positive balance.
type Balance struct {
	Account Account
	Amount  decimal.Decimal
}

// TrialBalanceRow lists gross debit and credit totals for one account.
type TrialBalanceRow struct {
	Account Account
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}
