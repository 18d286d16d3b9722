package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
	"github.com/ledgerline/ledgerline/jobs"
)

// ScanEnqueuer submits integrity scans to the background queue.
type ScanEnqueuer interface {
	EnqueueIntegrityScan(ctx context.Context, payload jobs.LedgerIntegrityPayload) (string, error)
}

// JobsHandler exposes on-demand background work. Scans also run on a
// schedule; this endpoint exists for operators who want one now.
type JobsHandler struct {
	logger   *slog.Logger
	enqueuer ScanEnqueuer
}

// NewJobsHandler constructs a JobsHandler instance.
func NewJobsHandler(logger *slog.Logger, enqueuer ScanEnqueuer) *JobsHandler {
	return &JobsHandler{logger: logger, enqueuer: enqueuer}
}

// MountRoutes registers job routes on the provided router.
func (h *JobsHandler) MountRoutes(r chi.Router) {
	r.Post("/integrity-scans", h.enqueueScan)
}

type integrityScanRequest struct {
	CompanyIDs []string `json:"company_ids"`
	AsOf       string   `json:"as_of"`
}

func (h *JobsHandler) enqueueScan(w http.ResponseWriter, r *http.Request) {
	if h.enqueuer == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "background queue is not configured")
		return
	}
	var req integrityScanRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	payload := jobs.LedgerIntegrityPayload{CompanyIDs: req.CompanyIDs}
	if req.AsOf != "" {
		asOf, err := time.Parse(dateLayout, req.AsOf)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "as_of must be YYYY-MM-DD")
			return
		}
		payload.AsOf = asOf
	}
	taskID, err := h.enqueuer.EnqueueIntegrityScan(r.Context(), payload)
	if err != nil {
		h.logger.Error("enqueue integrity scan", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "could not enqueue scan")
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
}
