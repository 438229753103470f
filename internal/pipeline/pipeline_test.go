package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/flood-watch/internal/alert"
	"github.com/couchcryptid/flood-watch/internal/domain"
	"github.com/couchcryptid/flood-watch/internal/observability"
	"github.com/couchcryptid/flood-watch/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStore struct {
	mu       sync.Mutex
	inserted []domain.SensorRecord
	err      error
}

func (m *mockStore) Insert(_ context.Context, rec domain.SensorRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	rec.ID = int64(len(m.inserted) + 1)
	m.inserted = append(m.inserted, rec)
	return rec.ID, nil
}

type mockNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *mockNotifier) Send(_ context.Context, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, body)
	return m.err
}

func (m *mockNotifier) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func newTestPipeline(store *mockStore, notifier *mockNotifier) *pipeline.Pipeline {
	return pipeline.New(store, alert.NewGate(10*time.Minute), notifier,
		slog.Default(), observability.NewMetricsForTesting())
}

func payload(t *testing.T, body string) domain.Payload {
	t.Helper()
	p, err := domain.NewJSONPayload([]byte(body), "application/json")
	require.NoError(t, err)
	return p
}

// --- tests ---

func TestIngest_PersistsClassifiedReading(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	domain.SetClock(fake)
	t.Cleanup(func() { domain.SetClock(nil) })

	store := &mockStore{}
	p := newTestPipeline(store, &mockNotifier{})

	risk, err := p.Ingest(context.Background(), payload(t, `{"flow_rate":5,"water_level":60,"rain_level":10,"river_distance":30}`))

	require.NoError(t, err)
	assert.Equal(t, domain.RiskMedium, risk)
	require.Len(t, store.inserted, 1)
	rec := store.inserted[0]
	assert.Equal(t, "2026-03-14 09:00:00", rec.Timestamp)
	assert.Equal(t, 60.0, rec.WaterLevel)
	assert.Equal(t, domain.RiskMedium, rec.Risk)
}

func TestIngest_ValidationErrorIsTypedAndNothingPersists(t *testing.T) {
	store := &mockStore{}
	p := newTestPipeline(store, &mockNotifier{})

	_, err := p.Ingest(context.Background(), payload(t, `{"water_level":"abc"}`))

	require.Error(t, err)
	assert.True(t, pipeline.IsValidationError(err))
	var fieldErr *domain.NonNumericFieldError
	assert.ErrorAs(t, err, &fieldErr)
	assert.Empty(t, store.inserted)
}

func TestIngest_StorageFaultIsOpaque(t *testing.T) {
	store := &mockStore{err: errors.New("disk I/O error")}
	p := newTestPipeline(store, &mockNotifier{})

	_, err := p.Ingest(context.Background(), payload(t, `{"water_level":10}`))

	require.Error(t, err)
	assert.False(t, pipeline.IsValidationError(err))
}

func TestIngest_HighRiskTriggersOneNotification(t *testing.T) {
	store := &mockStore{}
	notifier := &mockNotifier{}
	p := newTestPipeline(store, notifier)

	risk, err := p.Ingest(context.Background(), payload(t, `{"flow_rate":5,"water_level":90,"rain_level":10}`))

	require.NoError(t, err)
	assert.Equal(t, domain.RiskHigh, risk)
	require.Equal(t, 1, notifier.sentCount())
	assert.Contains(t, notifier.sent[0], "FLOOD ALERT")
	assert.Contains(t, notifier.sent[0], "Level: 90")
}

func TestIngest_LowRiskDoesNotNotify(t *testing.T) {
	notifier := &mockNotifier{}
	p := newTestPipeline(&mockStore{}, notifier)

	_, err := p.Ingest(context.Background(), payload(t, `{"water_level":10,"rain_level":10}`))

	require.NoError(t, err)
	assert.Zero(t, notifier.sentCount())
}

func TestIngest_CooldownSuppressesRepeatAlerts(t *testing.T) {
	fake := clockwork.NewFakeClock()
	domain.SetClock(fake)
	t.Cleanup(func() { domain.SetClock(nil) })

	store := &mockStore{}
	notifier := &mockNotifier{}
	p := newTestPipeline(store, notifier)

	high := `{"flow_rate":5,"water_level":90,"rain_level":10}`
	ctx := context.Background()

	// First HIGH event alerts.
	_, err := p.Ingest(ctx, payload(t, high))
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.sentCount())

	// One minute later: suppressed, but still persisted.
	fake.Advance(1 * time.Minute)
	_, err = p.Ingest(ctx, payload(t, high))
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.sentCount())
	assert.Len(t, store.inserted, 2)

	// Eleven minutes after the first: gate re-armed.
	fake.Advance(10 * time.Minute)
	_, err = p.Ingest(ctx, payload(t, high))
	require.NoError(t, err)
	assert.Equal(t, 2, notifier.sentCount())
}

func TestIngest_NotifierFailureDoesNotSurface(t *testing.T) {
	store := &mockStore{}
	notifier := &mockNotifier{err: errors.New("twilio API returned status 500")}
	p := newTestPipeline(store, notifier)

	risk, err := p.Ingest(context.Background(), payload(t, `{"water_level":90}`))

	require.NoError(t, err, "delivery failure must not surface to the device")
	assert.Equal(t, domain.RiskHigh, risk)
	assert.Len(t, store.inserted, 1, "record persisted despite failed delivery")
	assert.Equal(t, 1, notifier.sentCount())
}

func TestIngest_NilNotifierSkipsAlerting(t *testing.T) {
	store := &mockStore{}
	p := pipeline.New(store, alert.NewGate(10*time.Minute), nil,
		slog.Default(), observability.NewMetricsForTesting())

	risk, err := p.Ingest(context.Background(), payload(t, `{"water_level":90}`))

	require.NoError(t, err)
	assert.Equal(t, domain.RiskHigh, risk)
	assert.Len(t, store.inserted, 1)
}

func TestIngest_ConcurrentHighEventsAlertOnce(t *testing.T) {
	store := &mockStore{}
	notifier := &mockNotifier{}
	p := newTestPipeline(store, notifier)

	high := payload(t, `{"water_level":95}`)

	const submitters = 16
	var wg sync.WaitGroup
	wg.Add(submitters)
	for i := 0; i < submitters; i++ {
		go func() {
			defer wg.Done()
			_, err := p.Ingest(context.Background(), high)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, store.inserted, submitters, "every reading persisted")
	assert.Equal(t, 1, notifier.sentCount(), "exactly one alert among racing HIGH events")
}
