// Command poller builds a full flood status report on a cron schedule and
// publishes it to the Kafka report topic. It runs one report immediately at
// startup, then follows the schedule.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/flood-status-service/internal/adapter/hydromet"
	kafkaadapter "github.com/couchcryptid/flood-status-service/internal/adapter/kafka"
	"github.com/couchcryptid/flood-status-service/internal/config"
	"github.com/couchcryptid/flood-status-service/internal/observability"
	"github.com/couchcryptid/flood-status-service/internal/report"
	"github.com/robfig/cron/v3"
)

// pollTimeout bounds one fetch-assemble-publish cycle.
const pollTimeout = 2 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if !cfg.KafkaEnabled {
		slog.Error("poller requires Kafka", "hint", "set KAFKA_BROKERS")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := hydromet.NewClient(cfg.HydrometBaseURL, cfg.HydrometTimeout, metrics, logger)
	service := report.NewService(client, logger, metrics, cfg.ReportAllowPartial)
	writer := kafkaadapter.NewWriter(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poll := func() {
		pollCtx, cancel := context.WithTimeout(ctx, pollTimeout)
		defer cancel()

		built, err := service.BuildReport(pollCtx, report.AllCategories())
		if err != nil {
			metrics.PublishErrors.Inc()
			logger.Error("report build failed", "error", err)
			return
		}
		if err := writer.PublishReport(pollCtx, built); err != nil {
			metrics.PublishErrors.Inc()
			logger.Error("report publish failed", "error", err, "report_id", built.ID)
			return
		}
		metrics.ReportsPublished.Inc()
	}

	// First report immediately so a fresh deployment publishes without
	// waiting for the schedule.
	poll()

	c := cron.New()
	if _, err := c.AddFunc(cfg.PollSchedule, poll); err != nil {
		logger.Error("invalid poll schedule", "schedule", cfg.PollSchedule, "error", err)
		os.Exit(1)
	}
	c.Start()
	logger.Info("poller started", "schedule", cfg.PollSchedule, "topic", cfg.KafkaReportTopic)

	<-ctx.Done()
	logger.Info("shutting down")

	// Let an in-flight job finish before closing the producer.
	<-c.Stop().Done()
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
