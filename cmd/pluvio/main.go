// Command pluvio serves the rain-gauge reconciliation API: it ingests the
// readings and station-metadata feeds, reconciles them behind a TTL cache,
// and exposes the derived views over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/agrometeo/pluvio-monitor/internal/adapter/httpapi"
	kafkaadapter "github.com/agrometeo/pluvio-monitor/internal/adapter/kafka"
	"github.com/agrometeo/pluvio-monitor/internal/adapter/kobo"
	"github.com/agrometeo/pluvio-monitor/internal/config"
	"github.com/agrometeo/pluvio-monitor/internal/dataset"
	"github.com/agrometeo/pluvio-monitor/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	source := kobo.NewClient(cfg.ReadingsFeedURL, cfg.MetadataFeedURL, cfg.APIToken, cfg.FetchTimeout, logger)

	// Dataset export is feature-flagged via KAFKA_BROKERS.
	var publisher dataset.Publisher
	var exporter *kafkaadapter.Exporter
	if cfg.KafkaExportEnabled() {
		exporter = kafkaadapter.NewExporter(cfg, logger, metrics)
		publisher = exporter
		logger.Info("kafka export enabled", "topic", cfg.KafkaExportTopic)
	} else {
		logger.Info("kafka export disabled")
	}

	builder := dataset.NewBuilder(source, publisher, logger, metrics, cfg.RecentWindowDays, clock)
	cache := dataset.NewCache(builder, cfg.CacheTTL, clock, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, cache, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Warm the default view so the first user query is served from cache.
	go func() {
		if _, err := cache.Get(ctx, dataset.ModeRecent); err != nil {
			logger.Warn("initial dataset build failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if exporter != nil {
		if err := exporter.Close(); err != nil {
			logger.Error("kafka exporter close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
