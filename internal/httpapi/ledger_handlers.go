package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// PostingMetrics counts successful mutations and detected imbalances.
type PostingMetrics interface {
	TransactionPosted(company string)
	TransactionReversed(company string)
	IntegrityFailure()
}

// CacheBumper invalidates derived-report caches after a mutation.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// LedgerHandler wires the ledger's HTTP surface: company and account
// administration, posting, reversal, and projector reads.
type LedgerHandler struct {
	logger    *slog.Logger
	service   *ledger.Service
	metrics   PostingMetrics
	cache     CacheBumper
	validator *validator.Validate
}

// NewLedgerHandler constructs a LedgerHandler instance.
func NewLedgerHandler(logger *slog.Logger, service *ledger.Service, metrics PostingMetrics, cache CacheBumper) *LedgerHandler {
	return &LedgerHandler{
		logger:    logger,
		service:   service,
		metrics:   metrics,
		cache:     cache,
		validator: validator.New(),
	}
}

// MountRoutes registers ledger routes on the provided router.
func (h *LedgerHandler) MountRoutes(r chi.Router) {
	r.Post("/companies", h.registerCompany)
	r.Get("/companies", h.listCompanies)
	r.Post("/companies/{companyID}/accounts", h.createAccount)
	r.Get("/companies/{companyID}/accounts", h.listAccounts)
	r.Post("/companies/{companyID}/accounts/{code}/deactivate", h.deactivateAccount)
	r.Post("/companies/{companyID}/transactions", h.postTransaction)
	r.Get("/companies/{companyID}/transactions", h.listTransactions)
	r.Get("/companies/{companyID}/accounts/{code}/balance", h.accountBalance)
	r.Get("/companies/{companyID}/integrity", h.verifyIntegrity)
	r.Post("/transactions/{txID}/reverse", h.reverseTransaction)
}

type registerCompanyRequest struct {
	ID            string `json:"id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	BaseCurrency  string `json:"base_currency" validate:"required,len=3"`
	VATRegistered bool   `json:"vat_registered"`
	SeedChart     bool   `json:"seed_chart"`
}

func (h *LedgerHandler) registerCompany(w http.ResponseWriter, r *http.Request) {
	var req registerCompanyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}
	company, err := h.service.RegisterCompany(r.Context(), ledger.RegisterCompanyInput{
		ID:            req.ID,
		Name:          req.Name,
		BaseCurrency:  req.BaseCurrency,
		VATRegistered: req.VATRegistered,
		SeedChart:     req.SeedChart,
	})
	if err != nil {
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, companyView(company))
}

func (h *LedgerHandler) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies := h.service.Companies()
	out := make([]map[string]any, 0, len(companies))
	for _, c := range companies {
		out = append(out, companyView(c))
	}
	httpx.JSON(w, http.StatusOK, out)
}

type createAccountRequest struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required"`
}

func (h *LedgerHandler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}
	acc, err := h.service.CreateAccount(r.Context(), ledger.CreateAccountInput{
		CompanyID: chi.URLParam(r, "companyID"),
		Code:      req.Code,
		Name:      req.Name,
		Type:      ledger.AccountType(req.Type),
	})
	if err != nil {
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, accountView(acc))
}

func (h *LedgerHandler) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.Accounts(chi.URLParam(r, "companyID"))
	if err != nil {
		RespondError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, accountView(acc))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *LedgerHandler) deactivateAccount(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeactivateAccount(r.Context(), chi.URLParam(r, "companyID"), chi.URLParam(r, "code"))
	if err != nil {
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

type postLineRequest struct {
	AccountCode string `json:"account_code" validate:"required"`
	Side        string `json:"side" validate:"required,oneof=DEBIT CREDIT"`
	Amount      string `json:"amount" validate:"required"`
	VATCode     string `json:"vat_code"`
}

type postTransactionRequest struct {
	Date        string            `json:"date" validate:"required,datetime=2006-01-02"`
	Description string            `json:"description" validate:"required"`
	Lines       []postLineRequest `json:"lines" validate:"required,min=2,dive"`
}

func (h *LedgerHandler) postTransaction(w http.ResponseWriter, r *http.Request) {
	var req postTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}
	date, _ := time.Parse(dateLayout, req.Date)
	input := ledger.PostingInput{
		CompanyID:   chi.URLParam(r, "companyID"),
		Date:        date,
		Description: req.Description,
	}
	for _, line := range req.Lines {
		amount, err := decimal.NewFromString(line.Amount)
		if err != nil {
			RespondError(w, ledger.ErrInvalidAmount)
			return
		}
		input.Lines = append(input.Lines, ledger.LineInput{
			AccountCode: line.AccountCode,
			Side:        ledger.Side(line.Side),
			Amount:      amount,
			VATCode:     line.VATCode,
		})
	}
	tx, err := h.service.Post(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}
	h.afterMutation(r.Context(), tx.CompanyID, false)
	httpx.JSON(w, http.StatusCreated, ledger.EncodeTransaction(tx))
}

func (h *LedgerHandler) listTransactions(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseWindow(w, r)
	if !ok {
		return
	}
	txs, err := h.service.Transactions(chi.URLParam(r, "companyID"), from, to)
	if err != nil {
		RespondError(w, err)
		return
	}
	out := make([]ledger.Record, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ledger.EncodeTransaction(tx))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *LedgerHandler) reverseTransaction(w http.ResponseWriter, r *http.Request) {
	txID, err := uuid.Parse(chi.URLParam(r, "txID"))
	if err != nil {
		RespondError(w, ledger.ErrTransactionNotFound)
		return
	}
	reversal, err := h.service.Reverse(r.Context(), txID)
	if err != nil {
		RespondError(w, err)
		return
	}
	h.afterMutation(r.Context(), reversal.CompanyID, true)
	httpx.JSON(w, http.StatusCreated, ledger.EncodeTransaction(reversal))
}

func (h *LedgerHandler) accountBalance(w http.ResponseWriter, r *http.Request) {
	asOf, ok := parseAsOf(w, r)
	if !ok {
		return
	}
	companyID := chi.URLParam(r, "companyID")
	code := chi.URLParam(r, "code")
	balance, err := h.service.BalanceAsOf(companyID, code, asOf)
	if err != nil {
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"company_id": companyID,
		"account":    code,
		"as_of":      asOf.Format(dateLayout),
		"balance":    balance.StringFixed(2),
	})
}

func (h *LedgerHandler) verifyIntegrity(w http.ResponseWriter, r *http.Request) {
	asOf, ok := parseAsOf(w, r)
	if !ok {
		return
	}
	if err := h.service.VerifyBalanced(chi.URLParam(r, "companyID"), asOf); err != nil {
		if errors.Is(err, ledger.ErrLedgerImbalance) && h.metrics != nil {
			h.metrics.IntegrityFailure()
		}
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "balanced"})
}

func (h *LedgerHandler) afterMutation(ctx context.Context, companyID string, reversal bool) {
	if h.metrics != nil {
		if reversal {
			h.metrics.TransactionReversed(companyID)
		} else {
			h.metrics.TransactionPosted(companyID)
		}
	}
	if h.cache != nil {
		if err := h.cache.Bump(ctx); err != nil && h.logger != nil {
			h.logger.Warn("bump report cache", slog.Any("error", err))
		}
	}
}

func companyView(c ledger.Company) map[string]any {
	return map[string]any{
		"id":             c.ID,
		"name":           c.Name,
		"base_currency":  c.BaseCurrency,
		"vat_registered": c.VATRegistered,
		"created_at":     c.CreatedAt,
	}
}

func accountView(a ledger.Account) map[string]any {
	return map[string]any{
		"code":        a.Code,
		"name":        a.Name,
		"type":        string(a.Type),
		"normal_side": string(a.Type.NormalSide()),
		"active":      a.Active,
	}
}
