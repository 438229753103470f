//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flood-watch/internal/adapter/kafka"
	"github.com/couchcryptid/flood-watch/internal/alert"
	"github.com/couchcryptid/flood-watch/internal/config"
	"github.com/couchcryptid/flood-watch/internal/domain"
	"github.com/couchcryptid/flood-watch/internal/observability"
	"github.com/couchcryptid/flood-watch/internal/pipeline"
	"github.com/couchcryptid/flood-watch/internal/store"
)

const testReadingsTopic = "test-sensor-readings"

// TestKafkaIngest wires the Kafka ingress to a real pipeline and SQLite
// store, publishes a batch that includes a poison pill, and verifies
// that every well-formed reading lands classified in the store.
func TestKafkaIngest(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testReadingsTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testReadingsTopic,
		KafkaGroupID: fmt.Sprintf("test-ingest-%d", time.Now().UnixNano()),
	}

	s, err := store.Open(filepath.Join(t.TempDir(), "flood_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(s, alert.NewGate(10*time.Minute), nil, discardLogger(), metrics)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testReadingsTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("g1"), Value: []byte(`{"water_level":90,"rain_level":10,"flow_rate":4,"river_distance":12}`)},
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("g2"), Value: []byte(`{"water_level":20,"rain_level":5,"flow_rate":2,"river_distance":80}`)},
	))

	reader := kafka.NewReader(cfg, p, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	runCtx, runCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- reader.Run(runCtx) }()

	// Consumer groups can take a while to rebalance, so poll the store.
	var records []domain.SensorRecord
	require.Eventually(t, func() bool {
		var err error
		records, err = s.Recent(ctx, 10)
		require.NoError(t, err)
		return len(records) >= 2
	}, 90*time.Second, time.Second, "waiting for readings to be persisted")

	runCancel()
	require.NoError(t, <-errCh)

	require.Len(t, records, 2, "poison pill must not be persisted")
	assert.Equal(t, domain.RiskHigh, records[0].Risk)
	assert.Equal(t, 90.0, records[0].WaterLevel)
	assert.Equal(t, domain.RiskLow, records[1].Risk)
	assert.Equal(t, 20.0, records[1].WaterLevel)
}
