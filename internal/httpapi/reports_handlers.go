package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
	"github.com/ledgerline/ledgerline/internal/reports"
)

// ReportsHandler exposes the derived financial statements.
type ReportsHandler struct {
	logger  *slog.Logger
	service *reports.Service
}

// NewReportsHandler constructs a ReportsHandler instance.
func NewReportsHandler(logger *slog.Logger, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{logger: logger, service: service}
}

// MountRoutes registers report routes on the provided router.
func (h *ReportsHandler) MountRoutes(r chi.Router) {
	r.Get("/companies/{companyID}/reports/trial-balance", h.trialBalance)
	r.Get("/companies/{companyID}/reports/balance-sheet", h.balanceSheet)
	r.Get("/companies/{companyID}/reports/income-statement", h.incomeStatement)
}

func (h *ReportsHandler) trialBalance(w http.ResponseWriter, r *http.Request) {
	asOf, ok := parseAsOf(w, r)
	if !ok {
		return
	}
	tb, err := h.service.TrialBalance(chi.URLParam(r, "companyID"), asOf)
	if err != nil {
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, trialBalanceView(tb, asOf))
}

func (h *ReportsHandler) balanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf, ok := parseAsOf(w, r)
	if !ok {
		return
	}
	bs, err := h.service.BalanceSheet(chi.URLParam(r, "companyID"), asOf)
	if err != nil {
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, balanceSheetView(bs, asOf))
}

func (h *ReportsHandler) incomeStatement(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseRequiredWindow(w, r)
	if !ok {
		return
	}
	is, err := h.service.IncomeStatement(chi.URLParam(r, "companyID"), from, to)
	if err != nil {
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, incomeStatementView(is, from, to))
}
