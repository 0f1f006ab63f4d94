package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/skubase/skubase/internal/app"
	"github.com/skubase/skubase/internal/catalog"
	jobmetrics "github.com/skubase/skubase/internal/jobs"
	"github.com/skubase/skubase/internal/platform/cache"
	"github.com/skubase/skubase/internal/storage"
	"github.com/skubase/skubase/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if !cfg.RedisEnabled() {
		logger.Error("worker requires REDIS_ADDR, the workbench alone runs without it")
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	store := storage.NewCSVStore(cfg.DataFile)
	summaryCache := catalog.NewSummaryCache(redisClient, cfg.SummaryCacheTTL)
	metrics := jobmetrics.NewMetrics(nil)

	backupJob := jobs.NewBackupJob(store, cfg.BackupDir, logger, metrics)
	warmupJob := jobs.NewWarmupJob(store, summaryCache, logger, metrics)

	backupTask, err := jobs.NewCatalogBackupTask("scheduled", time.Now().UTC())
	if err != nil {
		logger.Error("build backup task", slog.Any("error", err))
		os.Exit(1)
	}
	warmupTask, err := jobs.NewSummaryWarmupTask("scheduled")
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCatalogBackup, Handler: backupJob.Handle},
			{Type: jobs.TaskSummaryWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "30 1 * * *", Task: backupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "*/30 * * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(1)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
