package httpapi

import (
	"errors"
	"net/http"

	"github.com/ledgerline/ledgerline/internal/consol"
	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/platform/httpx"
	"github.com/ledgerline/ledgerline/internal/reports"
)

// RespondError maps domain errors onto HTTP problem responses. The
// taxonomy is deliberate: bad input maps to 4xx, ledger integrity
// violations map to 500 because they mean the stored ledger is
// corrupt, not that the caller erred.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrUnbalancedEntry),
		errors.Is(err, ledger.ErrInsufficientLines),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidSide),
		errors.Is(err, ledger.ErrInvalidType),
		errors.Is(err, ledger.ErrInvalidCurrency),
		errors.Is(err, ledger.ErrInvalidCompany):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	case errors.Is(err, ledger.ErrCompanyNotFound),
		errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrTransactionNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ledger.ErrDuplicateCompany),
		errors.Is(err, ledger.ErrDuplicateCode),
		errors.Is(err, ledger.ErrAlreadyReversed):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ledger.ErrAccountInactive),
		errors.Is(err, ledger.ErrUnknownVATCode),
		errors.Is(err, consol.ErrNoCompanies):
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, reports.ErrUnbalancedLedger),
		errors.Is(err, ledger.ErrLedgerImbalance),
		errors.Is(err, consol.ErrEliminationMismatch):
		httpx.Problem(w, http.StatusInternalServerError, "Ledger Integrity Violation", err.Error())
	default:
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
