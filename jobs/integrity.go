package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/ledgerline/ledgerline/internal/jobs"
	"github.com/ledgerline/ledgerline/internal/ledger"
)

// LedgerSource is the slice of the ledger the integrity scan reads.
type LedgerSource interface {
	Companies() []ledger.Company
	VerifyBalanced(companyID string, date time.Time) error
}

// SourceFunc rebuilds a ledger snapshot for one scan run. The scanner
// never reads live server memory; each run replays the durable
// archive so the scan also proves the archive reconstructs cleanly.
type SourceFunc func(ctx context.Context) (LedgerSource, error)

// IntegrityScanner runs the periodic trial balance check. Posting
// guarantees balance per transaction; the scan exists to catch
// corruption from everything else, a bad restore included.
type IntegrityScanner struct {
	source  SourceFunc
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewIntegrityScanner constructs the scanner.
func NewIntegrityScanner(source SourceFunc, logger *slog.Logger, metrics *jobmetrics.Metrics) *IntegrityScanner {
	return &IntegrityScanner{source: source, logger: logger, metrics: metrics}
}

// Handle processes TaskLedgerIntegrity tasks.
func (s *IntegrityScanner) Handle(ctx context.Context, t *asynq.Task) error {
	var payload LedgerIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	return s.Run(ctx, payload)
}

// Run verifies each in-scope company and reports every imbalance
// found. Companies are checked independently so one corrupt ledger
// does not hide another.
func (s *IntegrityScanner) Run(ctx context.Context, payload LedgerIntegrityPayload) error {
	tracker := s.metrics.Track("ledger_integrity")
	asOf := payload.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	source, err := s.source(ctx)
	if err != nil {
		return tracker.End(fmt.Errorf("rebuild ledger: %w", err))
	}

	scope := payload.CompanyIDs
	if len(scope) == 0 {
		for _, c := range source.Companies() {
			scope = append(scope, c.ID)
		}
	}

	var failed []string
	for _, id := range scope {
		if err := ctx.Err(); err != nil {
			return tracker.End(err)
		}
		err := source.VerifyBalanced(id, asOf)
		switch {
		case err == nil:
		case errors.Is(err, ledger.ErrLedgerImbalance):
			failed = append(failed, id)
			s.metrics.AddImbalance(id)
			s.logger.Error("trial balance out of balance",
				slog.String("job", "ledger_integrity"),
				slog.String("company_id", id))
		default:
			return tracker.End(fmt.Errorf("verify %s: %w", id, err))
		}
	}
	if len(failed) > 0 {
		return tracker.End(fmt.Errorf("%d company ledgers out of balance: %v", len(failed), failed))
	}
	s.logger.Info("ledger integrity scan clean",
		slog.String("job", "ledger_integrity"),
		slog.Int("companies", len(scope)))
	return tracker.End(nil)
}
