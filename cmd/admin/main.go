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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/V4T54L/event-admin/internal/adapter/api"
	"github.com/V4T54L/event-admin/internal/adapter/ingest"
	"github.com/V4T54L/event-admin/internal/adapter/metrics"
	"github.com/V4T54L/event-admin/internal/adapter/pii"
	"github.com/V4T54L/event-admin/internal/adapter/repository/elasticsearch"
	redisrepo "github.com/V4T54L/event-admin/internal/adapter/repository/redis"
	"github.com/V4T54L/event-admin/internal/adapter/view"
	"github.com/V4T54L/event-admin/internal/domain"
	"github.com/V4T54L/event-admin/internal/pkg/config"
	"github.com/V4T54L/event-admin/internal/pkg/logger"
	"github.com/V4T54L/event-admin/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logger.New(cfg.LogLevel)
	slog.SetDefault(logger)

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewAdminMetrics(reg)

	// --- Search Backend ---
	esClient, err := elasticsearch.NewClient(cfg.ElasticsearchURLs)
	if err != nil {
		logger.Error("failed to create elasticsearch client", "error", err)
		os.Exit(1)
	}
	eventRepo := elasticsearch.NewEventRepository(esClient, cfg.ElasticsearchIndex, cfg.ElasticsearchListSize, logger)
	if err := eventRepo.Ping(ctx); err != nil {
		logger.Warn("elasticsearch is not reachable yet, pages will show errors until it is", "error", err)
	}

	// --- Recent Submissions Feed (optional) ---
	var feed domain.SubmissionFeed
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redisrepo.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("could not connect to redis, recent submissions feed disabled", "error", err)
		} else {
			feed = redisrepo.NewSubmissionFeed(redisClient, cfg.RecentSubmissionsKey, cfg.RecentSubmissionsLimit, logger)
		}
	}

	// --- Use Cases ---
	ingestClient := ingest.NewClient(cfg.EventIngestURL, cfg.IngestTimeout, logger)
	redactor := pii.NewRedactor(cfg.LogRedactFields, logger)
	eventAdmin := usecase.NewEventAdminUseCase(eventRepo, ingestClient, feed, redactor, m, logger)

	views, err := view.NewRenderer()
	if err != nil {
		logger.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	// --- Start Admin and Metrics Server ---
	adminServer := &http.Server{
		Addr:    cfg.AdminServerAddr,
		Handler: api.NewAdminRouter(eventRepo, reg, logger),
	}

	go func() {
		logger.Info("starting admin & metrics server", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("admin & metrics server failed", "error", err)
		}
	}()

	// --- Start UI Server ---
	router := api.NewRouter(
		api.RouterConfig{APIBaseURL: cfg.APIBaseURL, MaxUploadSize: cfg.MaxUploadSize},
		logger, eventAdmin, views, eventRepo, m,
	)
	uiServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.IngestTimeout + 30*time.Second,
		WriteTimeout:      cfg.IngestTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting admin ui server", "addr", uiServer.Addr)
		if err := uiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("admin ui server failed", "error", err)
			stop() // Trigger shutdown on server error
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	logger.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := uiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin ui server shutdown failed", "error", err)
	}
	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin server shutdown failed", "error", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("failed to close redis client", "error", err)
		}
	}

	logger.Info("servers shut down gracefully")
}
