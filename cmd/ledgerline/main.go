package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ledgerline/ledgerline/internal/app"
	"github.com/ledgerline/ledgerline/internal/consol"
	"github.com/ledgerline/ledgerline/internal/httpapi"
	"github.com/ledgerline/ledgerline/internal/ledger"
	"github.com/ledgerline/ledgerline/internal/observability"
	"github.com/ledgerline/ledgerline/internal/platform/cache"
	"github.com/ledgerline/ledgerline/internal/platform/db"
	"github.com/ledgerline/ledgerline/internal/reports"
	"github.com/ledgerline/ledgerline/internal/store/pg"
	"github.com/ledgerline/ledgerline/internal/vat"
	"github.com/ledgerline/ledgerline/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	rateTable := vat.DefaultTable()
	if cfg.VATRates != "" {
		if rateTable, err = vat.ParseTable(cfg.VATRates); err != nil {
			logger.Error("parse vat rates", slog.Any("error", err))
			os.Exit(1)
		}
	}
	calculator := vat.NewCalculator(rateTable)

	ledgerOpts := []ledger.Option{ledger.WithVATRater(calculator)}

	var archive *pg.Archive
	if cfg.PGDSN != "" {
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		archive = pg.NewArchive(pool)
		if err := archive.Migrate(ctx); err != nil {
			logger.Error("migrate archive", slog.Any("error", err))
			os.Exit(1)
		}
		ledgerOpts = append(ledgerOpts, ledger.WithArchive(archive))
	} else {
		logger.Warn("no PG_DSN configured, ledger runs in memory only")
	}

	ledgerSvc := ledger.NewService(ledgerOpts...)
	if archive != nil {
		if err := archive.Restore(ctx, ledgerSvc); err != nil {
			logger.Error("restore ledger", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("ledger restored from archive",
			slog.Int("companies", len(ledgerSvc.Companies())))
	}

	var consolCache *consol.Cache
	var jobsHandler *httpapi.JobsHandler
	if redisClient, err := cache.New(ctx, cfg.RedisAddr); err != nil {
		logger.Warn("redis unavailable, caching and on-demand scans disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		consolCache = consol.NewCache(redisClient, cfg.ConsolCacheTTL)
		if err := consolCache.ListenForInvalidation(ctx); err != nil {
			logger.Warn("cache invalidation listener", slog.Any("error", err))
		}

		jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		if err != nil {
			logger.Warn("jobs client", slog.Any("error", err))
		} else {
			defer func() {
				if err := jobsClient.Close(); err != nil {
					logger.Warn("jobs client close", slog.Any("error", err))
				}
			}()
			jobsHandler = httpapi.NewJobsHandler(logger, jobsClient)
		}
	}

	reportsSvc := reports.NewService(ledgerSvc)
	vatSvc := vat.NewService(ledgerSvc)

	rules, err := consol.ParseRules(cfg.ConsolEliminations)
	if err != nil {
		logger.Error("parse elimination rules", slog.Any("error", err))
		os.Exit(1)
	}
	consolSvc, err := consol.NewService(reportsSvc, rules)
	if err != nil {
		logger.Error("init consolidation", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		LedgerHandler:  httpapi.NewLedgerHandler(logger, ledgerSvc, metrics, consolCache),
		ReportsHandler: httpapi.NewReportsHandler(logger, reportsSvc),
		VATHandler:     httpapi.NewVATHandler(logger, calculator, vatSvc),
		ConsolHandler:  httpapi.NewConsolHandler(logger, consolSvc, consolCache),
		JobsHandler:    jobsHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
}
