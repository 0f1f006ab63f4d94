package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/skubase/skubase/internal/jobs"
	"github.com/skubase/skubase/internal/storage"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// BackupJob copies the catalog data file into the backup directory. Backups
// run from disk rather than from any in-process state, so the worker can live
// in a separate process from the workbench.
type BackupJob struct {
	Store   *storage.CSVStore
	Dir     string
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewBackupJob wires dependencies for the backup handler.
func NewBackupJob(store *storage.CSVStore, dir string, logger *slog.Logger, metrics *jobmetrics.Metrics) *BackupJob {
	return &BackupJob{
		Store:   store,
		Dir:     dir,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes catalog backup tasks.
func (j *BackupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Store == nil {
		return errors.New("catalog backup: handler not configured")
	}
	var payload CatalogBackupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Reason == "" {
		payload.Reason = "scheduled"
	}

	tracker := j.metrics().Track(TaskCatalogBackup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("reason", payload.Reason))
	logger.Info("starting catalog backup")

	started := j.now()
	records, err := j.Store.Load()
	if err != nil {
		resultErr = err
		logger.Error("load catalog", slog.Any("error", err))
		return resultErr
	}

	path, err := j.Store.Backup(records, j.Dir)
	if err != nil {
		resultErr = err
		logger.Error("write backup", slog.Any("error", err))
		return resultErr
	}

	j.metrics().SetCatalogRecords(len(records))
	logger.Info("completed catalog backup",
		slog.String("path", path),
		slog.Int("records", len(records)),
		slog.Duration("duration", time.Since(started)))
	return resultErr
}

func (j *BackupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskCatalogBackup))
	}
	return slog.Default().With(slog.String("job", TaskCatalogBackup))
}

func (j *BackupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *BackupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
