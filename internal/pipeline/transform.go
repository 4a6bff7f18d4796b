package pipeline

import (
	"context"
	"log/slog"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
	"github.com/IceRain5491/WaterQualityClassifier/internal/observability"
)

// ObservationTransformer implements Transformer using the domain evaluation
// functions with optional station directory enrichment.
type ObservationTransformer struct {
	classifier *domain.Classifier
	directory  domain.StationDirectory
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewTransformer creates an ObservationTransformer. Pass a nil directory to
// disable station enrichment.
func NewTransformer(classifier *domain.Classifier, directory domain.StationDirectory, logger *slog.Logger, metrics *observability.Metrics) *ObservationTransformer {
	if directory != nil {
		directory = &meteredDirectory{next: directory, metrics: metrics}
	}
	return &ObservationTransformer{
		classifier: classifier,
		directory:  directory,
		logger:     logger,
		metrics:    metrics,
	}
}

func (t *ObservationTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.Assessment, error) {
	obs, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.Assessment{}, err
	}

	obs = domain.EnrichWithStation(obs, t.directory, t.logger)
	a := domain.EvaluateObservation(t.classifier, obs)
	a.RawPayload = raw.Value

	t.record(a)
	return a, nil
}

func (t *ObservationTransformer) record(a domain.Assessment) {
	for _, r := range a.Results {
		switch {
		case r.Metric == "":
			t.metrics.UnrecognizedLabels.Inc()
			t.logger.Debug("column is not a regulated metric", "station", a.Station, "label", r.Label)
		case r.Category == "":
			t.metrics.UnparseableReadings.WithLabelValues(string(r.Metric)).Inc()
			t.logger.Debug("reading has no usable value",
				"station", a.Station, "metric", r.Metric, "raw", r.Raw)
		default:
			t.metrics.ReadingsClassified.WithLabelValues(string(r.Metric), string(r.Category)).Inc()
		}
	}
}

// meteredDirectory counts directory hits and misses.
type meteredDirectory struct {
	next    domain.StationDirectory
	metrics *observability.Metrics
}

func (d *meteredDirectory) LookupStation(name string) (domain.StationInfo, bool) {
	info, ok := d.next.LookupStation(name)
	result := "miss"
	if ok {
		result = "hit"
	}
	d.metrics.StationLookups.WithLabelValues(result).Inc()
	return info, ok
}
