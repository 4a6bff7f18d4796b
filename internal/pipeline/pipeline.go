package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
	"github.com/IceRain5491/WaterQualityClassifier/internal/observability"
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer evaluates a raw observation message.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.Assessment, error)
}

// BatchLoader writes multiple assessments to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, assessments []domain.Assessment) error
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// overallOrder is the order batch tallies are reported in, best to worst,
// then no data and unrecognized.
var overallOrder = append(append([]domain.Category(nil), domain.Categories...), domain.NoData, "")

// Pipeline moves observations from the source topic to the sink topic as
// assessments. A message is committed only after its assessment is loaded;
// messages that are not observations are committed and skipped.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once the first batch of assessments is loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no assessments loaded yet")
	}
	return nil
}

// Ready reports whether at least one batch has been loaded.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// Run processes batches until the context is cancelled. Extract and load
// failures are retried with exponential backoff; the backoff resets after a
// batch goes through.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff
	for ctx.Err() == nil {
		err := p.runBatch(ctx)
		if err == nil {
			backoff = initialBackoff
			continue
		}
		if ctx.Err() != nil {
			break
		}
		p.logger.Error("batch failed", "error", err, "retry_in", backoff)
		if !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}

	p.logger.Info("pipeline stopping", "reason", context.Cause(ctx))
	return nil
}

// runBatch extracts one batch, evaluates it and loads the assessments.
func (p *Pipeline) runBatch(ctx context.Context) error {
	start := time.Now()

	raws, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	if len(raws) == 0 {
		return nil
	}
	p.metrics.MessagesConsumed.Add(float64(len(raws)))
	p.metrics.BatchSize.Observe(float64(len(raws)))

	b := p.evaluate(ctx, raws)
	if len(b.assessments) == 0 {
		return nil
	}

	if err := p.loader.LoadBatch(ctx, b.assessments); err != nil {
		return fmt.Errorf("load %d assessments: %w", len(b.assessments), err)
	}
	for _, raw := range b.pending {
		p.commit(ctx, raw)
	}

	p.record(b)
	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	return nil
}

// batch holds the evaluated part of one extracted batch.
type batch struct {
	assessments []domain.Assessment
	pending     []domain.RawEvent // committed once the assessments are loaded
	overall     map[domain.Category]int
}

// evaluate transforms every message. Messages that fail are committed at once
// so a poison message cannot stall its partition.
func (p *Pipeline) evaluate(ctx context.Context, raws []domain.RawEvent) batch {
	b := batch{
		assessments: make([]domain.Assessment, 0, len(raws)),
		pending:     make([]domain.RawEvent, 0, len(raws)),
		overall:     make(map[domain.Category]int),
	}
	for _, raw := range raws {
		a, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("not an observation, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commit(ctx, raw)
			continue
		}
		b.assessments = append(b.assessments, a)
		b.pending = append(b.pending, raw)
		b.overall[a.Overall]++
	}
	return b
}

// record publishes the overall-category tally of a loaded batch.
func (p *Pipeline) record(b batch) {
	p.metrics.MessagesProduced.Add(float64(len(b.assessments)))

	attrs := make([]any, 0, 2*len(b.overall)+2)
	attrs = append(attrs, "assessments", len(b.assessments))
	for _, c := range overallOrder {
		n := b.overall[c]
		if n == 0 {
			continue
		}
		label := string(c)
		if c == "" {
			label = "unrecognized"
		}
		p.metrics.AssessmentsByOverall.WithLabelValues(label).Add(float64(n))
		attrs = append(attrs, label, n)
	}
	p.logger.Info("batch loaded", attrs...)
}

func (p *Pipeline) commit(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}
