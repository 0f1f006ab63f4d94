package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/skubase/skubase/internal/app"
	"github.com/skubase/skubase/internal/catalog"
	cataloghttp "github.com/skubase/skubase/internal/catalog/http"
	"github.com/skubase/skubase/internal/observability"
	"github.com/skubase/skubase/internal/platform/cache"
	"github.com/skubase/skubase/internal/shared"
	"github.com/skubase/skubase/internal/storage"
	"github.com/skubase/skubase/internal/view"
	"github.com/skubase/skubase/jobs"
	"github.com/skubase/skubase/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	// A missing .env is fine, the environment itself may carry everything.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			// Redis is an optional accelerator here, a dead instance should
			// not keep the operator from their catalog.
			logger.Warn("redis unavailable, continuing without it", slog.Any("error", err))
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
		}
	}

	var sessionStore shared.SessionStore
	if redisClient != nil {
		sessionStore = shared.NewRedisSessionStore(redisClient)
	} else {
		sessionStore = shared.NewMemorySessionStore()
		logger.Info("redis not configured, using in-memory sessions")
	}
	sessionManager := shared.NewSessionManager(sessionStore, "skubase_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	store := storage.NewCSVStore(cfg.DataFile)
	collection := catalog.NewCollection()

	var summaryCache *catalog.SummaryCache
	if redisClient != nil {
		summaryCache = catalog.NewSummaryCache(redisClient, cfg.SummaryCacheTTL)
	}

	var jobsClient *jobs.Client
	var enqueuer catalog.JobEnqueuer
	if redisClient != nil {
		jobsClient, err = jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		if err != nil {
			logger.Error("init jobs client", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := jobsClient.Close(); err != nil {
				logger.Warn("jobs client close", slog.Any("error", err))
			}
		}()
		enqueuer = jobsClient
	}

	service := catalog.NewService(collection, store, summaryCache, enqueuer)
	if err := service.Reload(ctx); err != nil {
		logger.Error("load catalog", slog.Any("error", err), slog.String("file", cfg.DataFile))
	} else {
		logger.Info("catalog loaded", slog.Int("records", len(service.Records())), slog.String("file", cfg.DataFile))
	}

	var pdfClient *report.Client
	var reportHandler *report.Handler
	if cfg.PDFEnabled() {
		pdfClient = report.NewClient(cfg.GotenbergURL)
		reportHandler = report.NewHandler(pdfClient, logger)
	}

	catalogHandler := cataloghttp.NewHandler(logger, service, templates, csrfManager, sessionManager, pdfClient, cfg.DataFile)
	metrics := observability.NewMetrics()

	var jobHandler *jobs.Handler
	if redisClient != nil {
		inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Templates:      templates,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		CatalogHandler: catalogHandler,
		JobHandler:     jobHandler,
		ReportHandler:  reportHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}

	// Unsaved edits would be lost with the process, flush them first.
	if service.Dirty() {
		if err := service.Save(shutdownCtx); err != nil {
			logger.Error("save catalog on shutdown", slog.Any("error", err))
		} else {
			logger.Info("unsaved changes written", slog.String("file", cfg.DataFile))
		}
	}
}
