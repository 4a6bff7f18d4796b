package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
	"github.com/IceRain5491/WaterQualityClassifier/internal/observability"
	"github.com/IceRain5491/WaterQualityClassifier/internal/pipeline"
)

// --- mocks ---

// mockExtractor hands out its events in batches, then blocks until the
// context is cancelled to simulate an idle topic.
type mockExtractor struct {
	mu     sync.Mutex
	events []domain.RawEvent
	err    error
	calls  atomic.Int64
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	m.calls.Add(1)
	m.mu.Lock()
	if m.err != nil {
		err := m.err
		m.err = nil
		m.mu.Unlock()
		return nil, err
	}
	if len(m.events) == 0 {
		m.mu.Unlock()
		<-ctx.Done()
		return nil, ctx.Err()
	}
	n := min(batchSize, len(m.events))
	batch := m.events[:n]
	m.events = m.events[n:]
	m.mu.Unlock()
	return batch, nil
}

type mockTransformer struct {
	err     error
	overall map[string]domain.Category // by message key
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.Assessment, error) {
	if m.err != nil {
		return domain.Assessment{}, m.err
	}
	return domain.Assessment{ID: string(raw.Key), RawPayload: raw.Value, Overall: m.overall[string(raw.Key)]}, nil
}

type mockLoader struct {
	mu       sync.Mutex
	loaded   []domain.Assessment
	batches  int
	failures int // number of LoadBatch calls to fail before succeeding
}

func (m *mockLoader) LoadBatch(_ context.Context, assessments []domain.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return errors.New("broker unavailable")
	}
	m.batches++
	m.loaded = append(m.loaded, assessments...)
	return nil
}

func (m *mockLoader) snapshot() []domain.Assessment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Assessment(nil), m.loaded...)
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	raw := makeRawEvent(t, "obs-1")

	ext := &mockExtractor{events: []domain.RawEvent{raw}}
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), metrics, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	loaded := ldr.snapshot()
	require.Len(t, loaded, 1)
	assert.Equal(t, "obs-1", loaded[0].ID)
	assert.True(t, p.Ready())
	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MessagesConsumed))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MessagesProduced))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.PipelineRunning), "gauge reset on exit")
}

func TestPipeline_Run_Batches(t *testing.T) {
	events := make([]domain.RawEvent, 5)
	for i := range events {
		events[i] = makeRawEvent(t, "obs")
	}
	ext := &mockExtractor{events: events}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 2)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Len(t, ldr.snapshot(), 5)
	assert.Equal(t, 3, ldr.batches)
}

func TestPipeline_Run_TalliesOverallCategories(t *testing.T) {
	events := []domain.RawEvent{
		makeRawEvent(t, "a"), makeRawEvent(t, "b"), makeRawEvent(t, "c"), makeRawEvent(t, "d"),
	}
	tfm := &mockTransformer{overall: map[string]domain.Category{
		"a": domain.CategoryII,
		"b": domain.CategoryInferiorV,
		"c": domain.CategoryII,
		"d": domain.NoData,
	}}
	metrics := newTestMetrics()
	p := pipeline.New(&mockExtractor{events: events}, tfm, &mockLoader{}, slog.Default(), metrics, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.AssessmentsByOverall.WithLabelValues("II类")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AssessmentsByOverall.WithLabelValues("劣V类")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AssessmentsByOverall.WithLabelValues("无有效数据")))
	assert.Equal(t, 3, testutil.CollectAndCount(metrics.AssessmentsByOverall))
}

func TestPipeline_Run_LoadFailureNotTallied(t *testing.T) {
	ext := &mockExtractor{events: []domain.RawEvent{makeRawEvent(t, "a")}}
	tfm := &mockTransformer{overall: map[string]domain.Category{"a": domain.CategoryIII}}
	metrics := newTestMetrics()
	p := pipeline.New(ext, tfm, &mockLoader{failures: 1}, slog.Default(), metrics, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Zero(t, testutil.CollectAndCount(metrics.AssessmentsByOverall))
	assert.Zero(t, testutil.ToFloat64(metrics.MessagesProduced))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{} // no events, will block
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.snapshot())
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_TransformErrorCommitsAndSkips(t *testing.T) {
	var committed atomic.Bool
	raw := makeRawEvent(t, "obs-2")
	raw.Commit = func(_ context.Context) error {
		committed.Store(true)
		return nil
	}

	ext := &mockExtractor{events: []domain.RawEvent{raw}}
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, &mockTransformer{err: errors.New("bad data")}, ldr, slog.Default(), metrics, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.snapshot())
	assert.False(t, p.Ready())
	assert.True(t, committed.Load(), "poison messages are committed")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TransformErrors))
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	var committed atomic.Bool
	raw := makeRawEvent(t, "obs-5")
	raw.Topic = "raw-water-readings"
	raw.Commit = func(_ context.Context) error {
		committed.Store(true)
		return nil
	}

	ext := &mockExtractor{events: []domain.RawEvent{raw}}
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.True(t, committed.Load())
}

func TestPipeline_Run_LoadFailureDoesNotCommit(t *testing.T) {
	var committed atomic.Bool
	raw := makeRawEvent(t, "obs-6")
	raw.Commit = func(_ context.Context) error {
		committed.Store(true)
		return nil
	}

	ext := &mockExtractor{events: []domain.RawEvent{raw}}
	ldr := &mockLoader{failures: 1}
	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.snapshot())
	assert.False(t, committed.Load())
	assert.False(t, p.Ready())
}

func TestPipeline_Run_ExtractErrorBacksOff(t *testing.T) {
	ext := &mockExtractor{
		events: []domain.RawEvent{makeRawEvent(t, "obs-7")},
		err:    errors.New("leader not available"),
	}
	ldr := &mockLoader{}
	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, p.Run(ctx))
	assert.Len(t, ldr.snapshot(), 1, "recovers after the first failure")
	assert.GreaterOrEqual(t, ext.calls.Load(), int64(2))
}

func TestObservationTransformer_Transform(t *testing.T) {
	fixed := time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { domain.SetClock(nil) })

	dir := stubDirectory{"朱家尖水库": {Name: "朱家尖水库", Lon: 122.39, Lat: 29.91, WaterType: domain.WaterLake}}
	metrics := newTestMetrics()
	classifier := domain.NewClassifier(domain.WaterRiver, nil)
	tfm := pipeline.NewTransformer(classifier, dir, slog.Default(), metrics)

	a, err := tfm.Transform(context.Background(), makeRawEvent(t, "朱家尖水库"))
	require.NoError(t, err)

	assert.Equal(t, "湖库", a.WaterType, "water type from the directory")
	require.NotNil(t, a.Location)
	assert.Equal(t, 122.39, a.Location.Lon)
	assert.Equal(t, fixed, a.EvaluatedAt)
	assert.Equal(t, domain.CategoryIV, a.Overall)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StationLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ReadingsClassified.WithLabelValues("TP", "IV类")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UnparseableReadings.WithLabelValues("pH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UnrecognizedLabels))

	_, err = tfm.Transform(context.Background(), makeRawEvent(t, "甬江"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StationLookups.WithLabelValues("miss")))
}

func TestObservationTransformer_InvalidJSON(t *testing.T) {
	tfm := pipeline.NewTransformer(domain.NewClassifier(domain.WaterRiver, nil), nil, slog.Default(), newTestMetrics())
	_, err := tfm.Transform(context.Background(), domain.RawEvent{Value: []byte("not json")})
	assert.Error(t, err)
}

// --- helpers ---

type stubDirectory map[string]domain.StationInfo

func (d stubDirectory) LookupStation(name string) (domain.StationInfo, bool) {
	info, ok := d[domain.NormalizeStationName(name)]
	return info, ok
}

// makeRawEvent builds a message for station with one lake-sensitive
// phosphorus reading, one missing pH and one unregulated column.
func makeRawEvent(t *testing.T, station string) domain.RawEvent {
	t.Helper()
	data, err := json.Marshal(domain.RawObservation{
		Station:   station,
		SampledAt: "2024-05-06",
		Readings: []domain.RawReading{
			{Label: "总磷", Value: "0.08"},
			{Label: "pH", Value: "--"},
			{Label: "水温", Value: "18"},
		},
	})
	require.NoError(t, err)
	return domain.RawEvent{
		Key:   []byte(station),
		Value: data,
	}
}
