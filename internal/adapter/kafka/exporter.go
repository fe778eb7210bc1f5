// Package kafka publishes reconciled datasets to an export topic for
// downstream archival consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/agrometeo/pluvio-monitor/internal/config"
	"github.com/agrometeo/pluvio-monitor/internal/dataset"
	"github.com/agrometeo/pluvio-monitor/internal/domain"
	"github.com/agrometeo/pluvio-monitor/internal/observability"
)

// Exporter publishes one message per reconciled record after each dataset
// rebuild. It implements dataset.Publisher.
type Exporter struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewExporter creates a Kafka producer for the configured export topic.
func NewExporter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Exporter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaExportTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Exporter{writer: w, logger: logger, metrics: metrics}
}

// Publish serializes every record of the dataset and writes them in a single
// WriteMessages call. Message keys are code+date so re-exports of the same
// cache epoch compact cleanly downstream.
func (e *Exporter) Publish(ctx context.Context, ds *dataset.Dataset) error {
	if len(ds.Records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(ds.Records))
	for i := range ds.Records {
		msg, err := serializeRecord(ds.Records[i], ds)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := e.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write export batch: %w", err)
	}
	e.metrics.ExportPublished.Add(float64(len(msgs)))
	e.logger.Info("dataset exported", "mode", ds.Mode, "records", len(msgs))
	return nil
}

func (e *Exporter) Close() error {
	return e.writer.Close()
}

// serializeRecord marshals a reconciled record into a Kafka message.
func serializeRecord(rec domain.Record, ds *dataset.Dataset) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.Code + "|" + rec.Date.Format("2006-01-02")),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "mode", Value: []byte(ds.Mode)},
			{Key: "refreshed_at", Value: []byte(ds.RefreshedAt.Format(time.RFC3339))},
		},
	}, nil
}
