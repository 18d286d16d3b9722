// Package jobs hosts the Asynq background workload: the periodic
// ledger integrity scan and the queue plumbing around it.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrity re-derives every company's trial balance and
	// verifies total debits equal total credits.
	TaskLedgerIntegrity = "ledger:integrity"
)

// LedgerIntegrityPayload scopes one integrity scan. An empty company
// list means all companies; a zero AsOf means now.
type LedgerIntegrityPayload struct {
	CompanyIDs []string  `json:"company_ids,omitempty"`
	AsOf       time.Time `json:"as_of,omitempty"`
}

// NewLedgerIntegrityTask constructs an Asynq task for the scan.
func NewLedgerIntegrityTask(payload LedgerIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrity, data), nil
}
