package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ParseRawEvent deserializes a RawEvent's value into a RawObservation.
func ParseRawEvent(raw RawEvent) (RawObservation, error) {
	var obs RawObservation
	if err := json.Unmarshal(raw.Value, &obs); err != nil {
		return RawObservation{}, fmt.Errorf("parse raw observation: %w", err)
	}
	return obs, nil
}

// EvaluateObservation classifies every recognized column of obs and derives
// the overall category and the IV/V/劣V factor lists. Columns that are not
// regulated metrics are kept without a category. Values are cleaned with
// CoerceReading before classification.
func EvaluateObservation(c *Classifier, obs RawObservation) Assessment {
	station := Normalize(obs.Station)
	explicit := ParseWaterBodyType(obs.WaterType)

	a := Assessment{
		ID:          generateID(station, obs.SampledAt),
		Station:     station,
		SampledAt:   Normalize(obs.SampledAt),
		WaterType:   c.ResolveWaterType(station, explicit).String(),
		Location:    obs.Location,
		Results:     make([]MetricResult, 0, len(obs.Readings)),
		EvaluatedAt: clock.Now(),
	}

	for _, reading := range obs.Readings {
		result := MetricResult{
			Label: Normalize(reading.Label),
			Raw:   Normalize(string(reading.Value)),
		}
		metric, recognized := RecognizeMetric(reading.Label)
		if recognized {
			result.Metric = metric
		}
		if v, ok := CoerceReading(string(reading.Value)); ok {
			result.Value = &v
			if recognized {
				result.Category = c.ClassifyValue(metric, v, explicit, station)
			}
		}
		a.Results = append(a.Results, result)
		a.addFactor(result)
	}

	a.Overall = overallOf(a.Categories())
	return a
}

func (a *Assessment) addFactor(r MetricResult) {
	if r.Value == nil {
		return
	}
	factor := formatFactor(r.Label, *r.Value)
	switch r.Category {
	case CategoryIV:
		a.FactorsIV = append(a.FactorsIV, factor)
	case CategoryV:
		a.FactorsV = append(a.FactorsV, factor)
	case CategoryInferiorV:
		a.FactorsInferiorV = append(a.FactorsInferiorV, factor)
	}
}

// overallOf is NoData when no metric could be classified.
func overallOf(categories []Category) Category {
	if len(categories) == 0 {
		return NoData
	}
	return WorstCategory(categories)
}

// SerializeAssessment marshals an assessment for the sink topic.
func SerializeAssessment(a Assessment) ([]byte, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("serialize assessment: %w", err)
	}
	return data, nil
}

// generateID produces a deterministic ID from station and sampling time so
// replays of the same observation overwrite instead of duplicating.
func generateID(station, sampledAt string) string {
	hash := sha256.Sum256([]byte(NormalizeStationName(station) + "|" + Normalize(sampledAt)))
	return "wq-" + hex.EncodeToString(hash[:8])
}
