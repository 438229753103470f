package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/flood-watch/internal/config"
	"github.com/couchcryptid/flood-watch/internal/domain"
	"github.com/couchcryptid/flood-watch/internal/pipeline"
)

// Ingestor accepts one sensor payload and reports the classified risk.
// It is implemented by pipeline.Pipeline.
type Ingestor interface {
	Ingest(ctx context.Context, payload domain.Payload) (domain.Risk, error)
}

// Reader consumes sensor readings from a Kafka topic and hands each
// one to the ingestion pipeline. Gateways that batch telemetry uplink
// publish here instead of calling the HTTP endpoint.
type Reader struct {
	reader   *kafkago.Reader
	ingestor Ingestor
	logger   *slog.Logger
}

// NewReader creates a consumer for the configured readings topic.
func NewReader(cfg *config.Config, ingestor Ingestor, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
		GroupID: cfg.KafkaGroupID,
	})
	return &Reader{reader: r, ingestor: ingestor, logger: logger}
}

// Run consumes until the context is cancelled or the reader is closed.
// Malformed messages are logged and skipped so one bad producer cannot
// stall the partition.
func (r *Reader) Run(ctx context.Context) error {
	for {
		msg, err := r.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		payload, err := mapMessageToPayload(msg)
		if err != nil {
			r.logger.Warn("skipping undecodable message",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
		} else if _, err := r.ingestor.Ingest(ctx, payload); err != nil && !pipeline.IsValidationError(err) {
			// Storage faults are retryable; leave the offset uncommitted.
			r.logger.Error("ingest failed, will retry", "offset", msg.Offset, "error", err)
			continue
		}

		if err := r.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// mapMessageToPayload decodes a Kafka message body as a JSON reading.
func mapMessageToPayload(msg kafkago.Message) (domain.Payload, error) {
	return domain.NewJSONPayload(msg.Value, "application/json")
}
