package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/ledgerline/internal/consol"
	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// ConsolHandler exposes group-level consolidated statements.
type ConsolHandler struct {
	logger  *slog.Logger
	service *consol.Service
	cache   *consol.Cache
}

// NewConsolHandler constructs a ConsolHandler instance.
func NewConsolHandler(logger *slog.Logger, service *consol.Service, cache *consol.Cache) *ConsolHandler {
	return &ConsolHandler{logger: logger, service: service, cache: cache}
}

// MountRoutes registers consolidation routes on the provided router.
func (h *ConsolHandler) MountRoutes(r chi.Router) {
	r.Get("/consolidated/balance-sheet", h.balanceSheet)
}

func (h *ConsolHandler) balanceSheet(w http.ResponseWriter, r *http.Request) {
	companyIDs := parseCompanies(r.URL.Query().Get("companies"))
	if len(companyIDs) == 0 {
		RespondError(w, consol.ErrNoCompanies)
		return
	}
	asOf, ok := parseAsOf(w, r)
	if !ok {
		return
	}

	loader := func(ctx context.Context) (consol.Statement, error) {
		return h.service.Consolidated(ctx, companyIDs, asOf)
	}
	var stmt consol.Statement
	key, err := h.cache.StatementKey(r.Context(), companyIDs, asOf)
	if err != nil {
		// Redis trouble must not take reporting down.
		h.logger.Warn("consolidated cache key", slog.Any("error", err))
		stmt, err = loader(r.Context())
	} else {
		stmt, err = h.cache.FetchStatement(r.Context(), key, loader)
	}
	if err != nil {
		RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, consolStatementView(stmt))
}

// parseCompanies splits and canonicalises the comma-separated company
// list. Sorting keeps cache keys stable across parameter orderings.
func parseCompanies(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	sort.Strings(ids)
	return ids
}
