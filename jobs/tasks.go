package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogBackup writes a timestamped snapshot of the catalog file.
	TaskCatalogBackup = "catalog:backup"
	// TaskSummaryWarmup precomputes the dashboard summary into the cache.
	TaskSummaryWarmup = "catalog:warmup"
)

// CatalogBackupPayload records what prompted the backup.
type CatalogBackupPayload struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewCatalogBackupTask constructs an Asynq task for a catalog backup.
func NewCatalogBackupTask(reason string, at time.Time) (*asynq.Task, error) {
	payload := CatalogBackupPayload{Reason: reason, RequestedAt: at}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogBackup, body, asynq.Queue(QueueDefault)), nil
}

// SummaryWarmupPayload records what prompted the warmup.
type SummaryWarmupPayload struct {
	Trigger string `json:"trigger"`
}

// NewSummaryWarmupTask constructs an Asynq task for a summary warmup.
func NewSummaryWarmupTask(trigger string) (*asynq.Task, error) {
	payload := SummaryWarmupPayload{Trigger: trigger}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSummaryWarmup, body, asynq.Queue(QueueDefault)), nil
}
