//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/agrometeo/pluvio-monitor/internal/adapter/kafka"
	"github.com/agrometeo/pluvio-monitor/internal/config"
	"github.com/agrometeo/pluvio-monitor/internal/dataset"
	"github.com/agrometeo/pluvio-monitor/internal/domain"
	"github.com/agrometeo/pluvio-monitor/internal/observability"
)

const testExportTopic = "test-reconciled-readings"

// startKafka runs a single-broker Kafka container and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// feedSource serves fixed feed rows in place of a live survey platform.
type feedSource struct {
	readings []domain.Row
	stations []domain.Row
}

func (s *feedSource) FetchReadings(context.Context, time.Time) ([]domain.Row, error) {
	return s.readings, nil
}

func (s *feedSource) FetchStations(context.Context) ([]domain.Row, error) {
	return s.stations, nil
}

// TestExporterPublishesDataset verifies that a freshly built dataset lands on
// the export topic with one keyed message per reconciled record.
func TestExporterPublishesDataset(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testExportTopic)

	cfg := &config.Config{
		KafkaBrokers:     []string{broker},
		KafkaExportTopic: testExportTopic,
	}

	exporter := kafkaadapter.NewExporter(cfg, discardLogger(), observability.NewMetricsForTesting())
	t.Cleanup(func() { _ = exporter.Close() })

	refreshedAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	ds := &dataset.Dataset{
		Mode:        dataset.ModeRecent,
		RefreshedAt: refreshedAt,
		Records: []domain.Record{
			{
				Code:        "1042",
				Station:     "La Merced",
				Date:        time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
				Millimeters: 25,
				Phenomenon:  domain.PhenomenonStorm,
				Region:      "Valle de Lerma",
				Matched:     true,
			},
			{
				Code:        "9999",
				Station:     "9999",
				Date:        time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
				Millimeters: 0,
				Phenomenon:  domain.PhenomenonNone,
				Region:      domain.DefaultRegion,
			},
		},
	}

	require.NoError(t, exporter.Publish(ctx, ds))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testExportTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make(map[string]domain.Record, len(ds.Records))
	for len(received) < len(ds.Records) {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from export topic")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, "recent", headers["mode"])
		assert.Equal(t, refreshedAt.Format(time.RFC3339), headers["refreshed_at"])

		var rec domain.Record
		require.NoError(t, json.Unmarshal(msg.Value, &rec))
		received[string(msg.Key)] = rec
	}

	matched, ok := received["1042|2026-03-14"]
	require.True(t, ok, "expected keyed message for matched record")
	assert.Equal(t, "La Merced", matched.Station)
	assert.Equal(t, 25.0, matched.Millimeters)
	assert.True(t, matched.Matched)

	unmatched, ok := received["9999|2026-03-14"]
	require.True(t, ok, "expected keyed message for unmatched record")
	assert.False(t, unmatched.Matched)
	assert.Equal(t, domain.DefaultRegion, unmatched.Region)
}

// TestBuilderExportsEndToEnd wires the full refresh path (feed rows → builder →
// exporter) against real Kafka and verifies the reconciled records on the topic.
func TestBuilderExportsEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testExportTopic)

	cfg := &config.Config{
		KafkaBrokers:     []string{broker},
		KafkaExportTopic: testExportTopic,
	}

	metrics := observability.NewMetricsForTesting()
	exporter := kafkaadapter.NewExporter(cfg, discardLogger(), metrics)
	t.Cleanup(func() { _ = exporter.Close() })

	source := &feedSource{
		readings: []domain.Row{
			{
				"Pluviometros":           "1042.0",
				"Fecha_del_dato":         "2026-03-14",
				"Mil_metros_registrados": "25,5",
				"fenomeno":               "tormenta electrica",
			},
			{
				"Pluviometros":           "7001.0",
				"Fecha_del_dato":         "2026-03-14",
				"Mil_metros_registrados": "abc",
				"fenomeno":               "",
			},
		},
		stations: []domain.Row{
			{
				"codigo_pluviometro":     "1042",
				"nombre_del_pluviometro": "La Merced",
				"departamento":           "Cerrillos",
				"provincia":              "Salta",
				"region":                 "Valle de Lerma",
			},
		},
	}

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
	builder := dataset.NewBuilder(source, exporter, discardLogger(), metrics, 90, clock)

	ds, err := builder.Build(ctx, dataset.ModeRecent)
	require.NoError(t, err)
	require.Len(t, ds.Records, 2)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testExportTopic,
		GroupID:     fmt.Sprintf("test-e2e-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make(map[string]domain.Record, 2)
	for len(received) < 2 {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from export topic")

		var rec domain.Record
		require.NoError(t, json.Unmarshal(msg.Value, &rec))
		received[string(msg.Key)] = rec
	}

	matched, ok := received["1042|2026-03-14"]
	require.True(t, ok, "expected normalized key for matched record")
	assert.Equal(t, "La Merced", matched.Station)
	assert.Equal(t, 25.5, matched.Millimeters)
	assert.Equal(t, domain.PhenomenonStorm, matched.Phenomenon)
	assert.Equal(t, "Valle de Lerma", matched.Region)
	assert.True(t, matched.Matched)

	unmatched, ok := received["7001|2026-03-14"]
	require.True(t, ok, "expected normalized key for unmatched record")
	assert.Equal(t, "7001", unmatched.Station)
	assert.Equal(t, 0.0, unmatched.Millimeters)
	assert.Equal(t, domain.PhenomenonNone, unmatched.Phenomenon)
	assert.Equal(t, domain.DefaultRegion, unmatched.Region)
	assert.False(t, unmatched.Matched)
}
