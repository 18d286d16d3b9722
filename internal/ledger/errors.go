package ledger

import "errors"

// Validation errors: the request was malformed and nothing was written.
var (
	// ErrUnbalancedEntry indicates debit and credit totals differ.
	ErrUnbalancedEntry = errors.New("ledger: debits and credits must balance")
	// ErrInsufficientLines indicates fewer than two lines.
	ErrInsufficientLines = errors.New("ledger: transaction requires at least two lines")
	// ErrInvalidAmount indicates a non-positive or over-precise amount.
	ErrInvalidAmount = errors.New("ledger: line amount must be positive with at most two decimals")
	// ErrInvalidType indicates an unrecognised account type.
	ErrInvalidType = errors.New("ledger: unknown account type")
	// ErrInvalidSide indicates a line side other than DEBIT or CREDIT.
	ErrInvalidSide = errors.New("ledger: line side must be debit or credit")
	// ErrInvalidCurrency indicates an unparseable base currency code.
	ErrInvalidCurrency = errors.New("ledger: invalid base currency")
	// ErrInvalidCompany indicates a blank company id or name.
	ErrInvalidCompany = errors.New("ledger: company id and name are required")
)

// Reference errors: the request named something that does not exist or
// cannot be used. The log is unchanged.
var (
	// ErrCompanyNotFound indicates an unknown company id.
	ErrCompanyNotFound = errors.New("ledger: company not found")
	// ErrDuplicateCompany indicates the company id is already registered.
	ErrDuplicateCompany = errors.New("ledger: company already registered")
	// ErrAccountNotFound indicates an unknown account code.
	ErrAccountNotFound = errors.New("ledger: account not found")
	// ErrDuplicateCode indicates the account code exists in the company.
	ErrDuplicateCode = errors.New("ledger: account code already exists")
	// ErrAccountInactive indicates a posting against a deactivated account.
	ErrAccountInactive = errors.New("ledger: account is deactivated")
	// ErrTransactionNotFound indicates an unknown transaction id.
	ErrTransactionNotFound = errors.New("ledger: transaction not found")
	// ErrAlreadyReversed indicates a second reversal of the same entry.
	ErrAlreadyReversed = errors.New("ledger: transaction already reversed")
	// ErrUnknownVATCode indicates a VAT code missing from the rate table.
	ErrUnknownVATCode = errors.New("ledger: unknown vat code")
)

// Invariant-violation errors: the stored ledger itself is inconsistent.
// These indicate corruption upstream and are surfaced loudly, never
// repaired automatically.
var (
	// ErrLedgerImbalance indicates the trial balance does not net to zero.
	ErrLedgerImbalance = errors.New("ledger: trial balance does not net to zero")
	// ErrBadRecord indicates an archived record that cannot be decoded.
	ErrBadRecord = errors.New("ledger: malformed transaction record")
)
