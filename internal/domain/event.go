package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ReadingValue is a raw cell value. It unmarshals from a JSON string, number
// or null so exporters do not have to agree on one representation.
type ReadingValue string

func (v *ReadingValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = ReadingValue(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("reading value %s: %w", data, err)
		}
		*v = ReadingValue(n.String())
	}
	return nil
}

// RawReading is one column of an observation as it appeared in the export.
type RawReading struct {
	Label string       `json:"label"`
	Value ReadingValue `json:"value"`
}

// StationLocation is the map placement of a station.
type StationLocation struct {
	Lon   float64 `json:"lon,omitempty"`
	Lat   float64 `json:"lat,omitempty"`
	Group string  `json:"group,omitempty"`
}

// RawObservation is one station's readings for one sampling date, in column order.
type RawObservation struct {
	Station   string           `json:"station"`
	SampledAt string           `json:"sampled_at"`
	WaterType string           `json:"water_type,omitempty"` // "河流", "湖库", "river", "lake" or empty
	Readings  []RawReading     `json:"readings"`
	Location  *StationLocation `json:"location,omitempty"`
}

// MetricResult is the classification of one column. Metric and Category are
// empty for columns that are not regulated metrics or have no usable value.
type MetricResult struct {
	Label    string   `json:"label"`
	Metric   MetricID `json:"metric,omitempty"`
	Raw      string   `json:"raw"`
	Value    *float64 `json:"value,omitempty"`
	Category Category `json:"category,omitempty"`
}

// Assessment is the evaluated form of a RawObservation.
type Assessment struct {
	ID        string           `json:"id"`
	Station   string           `json:"station"`
	SampledAt string           `json:"sampled_at"`
	WaterType string           `json:"water_type"` // type the phosphorus ladder used
	Location  *StationLocation `json:"location,omitempty"`
	Results   []MetricResult   `json:"results"`
	Overall   Category         `json:"overall"`

	// Labels with values of the metrics graded IV, V and 劣V, e.g. "总磷（0.35）".
	FactorsIV        []string `json:"factors_iv,omitempty"`
	FactorsV         []string `json:"factors_v,omitempty"`
	FactorsInferiorV []string `json:"factors_inferior_v,omitempty"`

	RawPayload  []byte    `json:"-"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// Categories returns the non-empty per-metric categories in column order.
func (a Assessment) Categories() []Category {
	out := make([]Category, 0, len(a.Results))
	for _, r := range a.Results {
		if r.Category != "" {
			out = append(out, r.Category)
		}
	}
	return out
}

// Result returns the first result for metric.
func (a Assessment) Result(metric MetricID) (MetricResult, bool) {
	for _, r := range a.Results {
		if r.Metric == metric {
			return r, true
		}
	}
	return MetricResult{}, false
}

func formatFactor(label string, v float64) string {
	return label + "（" + strconv.FormatFloat(v, 'f', -1, 64) + "）"
}
