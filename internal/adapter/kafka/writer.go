// Package kafka publishes assembled flood status reports to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/flood-status-service/internal/config"
	"github.com/couchcryptid/flood-status-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces report messages to the configured report topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured report topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaReportTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishReport serializes one report and writes it to the report topic,
// keyed by report ID so replays of the same report land on one partition.
func (w *Writer) PublishReport(ctx context.Context, report domain.Report) error {
	msg, err := serializeReport(report)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish report %s: %w", report.ID, err)
	}
	w.logger.Info("report published",
		"report_id", report.ID,
		"lake_levels", len(report.LakeLevels),
		"river_conditions", len(report.RiverConditions),
		"floodgate_operations", len(report.FloodgateOperations),
	)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeReport marshals a report into a Kafka message with count headers
// so consumers can filter without deserializing the body.
func serializeReport(report domain.Report) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(report.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "generated_at", Value: []byte(report.GeneratedAt.Format(time.RFC3339))},
			{Key: "lake_levels", Value: []byte(strconv.Itoa(len(report.LakeLevels)))},
			{Key: "river_conditions", Value: []byte(strconv.Itoa(len(report.RiverConditions)))},
			{Key: "floodgate_operations", Value: []byte(strconv.Itoa(len(report.FloodgateOperations)))},
		},
	}, nil
}
