// Package pipeline orchestrates the ingestion of a single sensor reading:
// validate, classify, persist, then gate and fire the alert notification.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/flood-watch/internal/domain"
	"github.com/couchcryptid/flood-watch/internal/observability"
)

// Store persists classified readings.
type Store interface {
	Insert(ctx context.Context, rec domain.SensorRecord) (int64, error)
}

// AlertGate decides whether a HIGH-risk event may trigger a notification.
type AlertGate interface {
	TryAcquire(now time.Time) bool
}

// Notifier delivers an alert message. Failures are logged by the pipeline
// and never surfaced to the submitting device.
type Notifier interface {
	Send(ctx context.Context, body string) error
}

// Pipeline is the single entry point invoked per incoming reading. It is
// safe for concurrent use; the gate is the only shared mutable state and
// guards itself.
type Pipeline struct {
	store    Store
	gate     AlertGate
	notifier Notifier // nil disables alerting
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Pipeline. Pass a nil notifier to run without an alert
// channel; HIGH readings are still persisted.
func New(store Store, gate AlertGate, notifier Notifier, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		store:    store,
		gate:     gate,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
	}
}

// Ingest validates and classifies a raw payload, persists the record, and
// attempts an alert for HIGH risk. Persistence always happens before
// alerting and is never rolled back by a failed notification. Validation
// errors come back typed (*domain.EmptyBodyError, *domain.NonNumericFieldError)
// for the transport to map to client errors; storage faults come back
// wrapped and opaque.
func (p *Pipeline) Ingest(ctx context.Context, payload domain.Payload) (domain.Risk, error) {
	start := time.Now()

	reading, err := domain.ValidateReading(payload)
	if err != nil {
		p.metrics.ValidationErrors.Inc()
		p.logger.Warn("reading rejected", "error", err)
		return "", err
	}

	risk := domain.ClassifyRisk(reading.WaterLevel, reading.RainLevel)
	rec := domain.NewSensorRecord(reading, risk)

	id, err := p.store.Insert(ctx, rec)
	if err != nil {
		p.metrics.StorageErrors.Inc()
		p.logger.Error("persist reading failed", "error", err, "risk", string(risk))
		return "", fmt.Errorf("persist reading: %w", err)
	}

	p.metrics.ReadingsIngested.WithLabelValues(string(risk)).Inc()
	p.logger.Debug("reading persisted",
		"id", id,
		"risk", string(risk),
		"water_level", reading.WaterLevel,
		"rain_level", reading.RainLevel,
	)

	if risk == domain.RiskHigh {
		p.alert(ctx, reading)
	}

	p.metrics.IngestDuration.Observe(time.Since(start).Seconds())
	return risk, nil
}

// alert runs the cooldown gate and, on a grant, sends the notification
// best-effort. The gate lock is internal to TryAcquire and is never held
// across the send, so a slow provider cannot block other submissions from
// being gated correctly.
func (p *Pipeline) alert(ctx context.Context, reading domain.Reading) {
	if p.notifier == nil {
		return
	}
	if !p.gate.TryAcquire(domain.Now()) {
		p.metrics.AlertsSuppressed.Inc()
		p.logger.Debug("alert suppressed by cooldown")
		return
	}

	p.metrics.AlertsSent.Inc()
	body := fmt.Sprintf("⚠️ FLOOD ALERT! High risk detected!\nFlow: %g, Level: %g, Rain: %g",
		reading.FlowRate, reading.WaterLevel, reading.RainLevel)

	if err := p.notifier.Send(ctx, body); err != nil {
		p.metrics.NotifyErrors.Inc()
		p.logger.Warn("alert delivery failed", "error", err)
	}
}

// IsValidationError reports whether an ingest error was caused by the
// submitted payload rather than by this service.
func IsValidationError(err error) bool {
	var emptyErr *domain.EmptyBodyError
	var fieldErr *domain.NonNumericFieldError
	return errors.As(err, &emptyErr) || errors.As(err, &fieldErr)
}
