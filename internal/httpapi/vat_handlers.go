package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
	"github.com/ledgerline/ledgerline/internal/vat"
)

// VATHandler exposes the configured rate table and period positions.
type VATHandler struct {
	logger     *slog.Logger
	calculator *vat.Calculator
	positions  *vat.Service
}

// NewVATHandler constructs a VATHandler instance.
func NewVATHandler(logger *slog.Logger, calculator *vat.Calculator, positions *vat.Service) *VATHandler {
	return &VATHandler{logger: logger, calculator: calculator, positions: positions}
}

// MountRoutes registers VAT routes on the provided router.
func (h *VATHandler) MountRoutes(r chi.Router) {
	r.Get("/vat/rates", h.listRates)
	r.Get("/companies/{companyID}/vat/position", h.position)
}

func (h *VATHandler) listRates(w http.ResponseWriter, r *http.Request) {
	rates := h.calculator.Rates()
	out := make([]map[string]any, 0, len(rates))
	for _, rate := range rates {
		out = append(out, vatRateView(rate))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *VATHandler) position(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseRequiredWindow(w, r)
	if !ok {
		return
	}
	pos, err := h.positions.PositionFor(chi.URLParam(r, "companyID"), from, to)
	if err != nil {
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vatPositionView(pos))
}
