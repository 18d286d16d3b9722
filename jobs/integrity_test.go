package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/ledger"
)

type fakeSource struct {
	companies []ledger.Company
	broken    map[string]bool
}

func (f *fakeSource) Companies() []ledger.Company {
	return f.companies
}

func (f *fakeSource) VerifyBalanced(companyID string, date time.Time) error {
	for _, c := range f.companies {
		if c.ID == companyID {
			if f.broken[companyID] {
				return ledger.ErrLedgerImbalance
			}
			return nil
		}
	}
	return ledger.ErrCompanyNotFound
}

func newTestScanner(source LedgerSource) *IntegrityScanner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewIntegrityScanner(func(context.Context) (LedgerSource, error) {
		return source, nil
	}, logger, nil)
}

func TestIntegrityScanClean(t *testing.T) {
	source := &fakeSource{companies: []ledger.Company{{ID: "acme"}, {ID: "subco"}}}
	scanner := newTestScanner(source)
	require.NoError(t, scanner.Run(context.Background(), LedgerIntegrityPayload{}))
}

func TestIntegrityScanReportsImbalance(t *testing.T) {
	source := &fakeSource{
		companies: []ledger.Company{{ID: "acme"}, {ID: "subco"}},
		broken:    map[string]bool{"subco": true},
	}
	scanner := newTestScanner(source)
	err := scanner.Run(context.Background(), LedgerIntegrityPayload{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "subco")
}

func TestIntegrityScanScopedToRequestedCompanies(t *testing.T) {
	source := &fakeSource{
		companies: []ledger.Company{{ID: "acme"}, {ID: "subco"}},
		broken:    map[string]bool{"subco": true},
	}
	scanner := newTestScanner(source)
	require.NoError(t, scanner.Run(context.Background(), LedgerIntegrityPayload{
		CompanyIDs: []string{"acme"},
	}))
}

func TestIntegrityScanPropagatesRebuildFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scanner := NewIntegrityScanner(func(context.Context) (LedgerSource, error) {
		return nil, errors.New("archive unreachable")
	}, logger, nil)
	err := scanner.Run(context.Background(), LedgerIntegrityPayload{})
	require.ErrorContains(t, err, "archive unreachable")
}
