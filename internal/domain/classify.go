package domain

import (
	"math"
	"strconv"
	"strings"
)

// WaterBodyType selects the total-phosphorus ladder. The zero value means
// "not stated" and defers to station membership or the classifier default.
type WaterBodyType int

const (
	WaterUnspecified WaterBodyType = iota
	WaterRiver
	WaterLake
)

func (w WaterBodyType) String() string {
	switch w {
	case WaterRiver:
		return "河流"
	case WaterLake:
		return "湖库"
	default:
		return ""
	}
}

// ParseWaterBodyType accepts the Chinese report spellings and English names.
// Unrecognized text returns WaterUnspecified.
func ParseWaterBodyType(s string) WaterBodyType {
	switch strings.ToLower(Normalize(s)) {
	case "河流", "河", "河道", "river", "stream":
		return WaterRiver
	case "湖库", "湖泊", "水库", "湖", "湖泊水库", "lake", "reservoir":
		return WaterLake
	default:
		return WaterUnspecified
	}
}

// step is one rung of an inclusive-upper-bound ladder.
type step struct {
	category Category
	bound    float64
}

// Ladders ordered from the best category down. Bounds are inclusive.
var (
	permanganateLadder = []step{{CategoryI, 2.0}, {CategoryII, 4.0}, {CategoryIII, 6.0}, {CategoryIV, 10.0}, {CategoryV, 15.0}}
	ammoniaLadder      = []step{{CategoryI, 0.15}, {CategoryII, 0.5}, {CategoryIII, 1.0}, {CategoryIV, 1.5}, {CategoryV, 2.0}}
	riverTPLadder      = []step{{CategoryI, 0.02}, {CategoryII, 0.1}, {CategoryIII, 0.2}, {CategoryIV, 0.3}, {CategoryV, 0.4}}
	lakeTPLadder       = []step{{CategoryI, 0.015}, {CategoryII, 0.025}, {CategoryIII, 0.05}, {CategoryIV, 0.1}, {CategoryV, 0.2}}
	nitrogenLadder     = []step{{CategoryI, 0.2}, {CategoryII, 0.5}, {CategoryIII, 1.0}, {CategoryIV, 1.5}, {CategoryV, 2.0}}

	// CODCr and BOD5 publish the same bound for I and II, so II is never reached.
	codCrLadder = []step{{CategoryI, 15}, {CategoryII, 15}, {CategoryIII, 20}, {CategoryIV, 30}, {CategoryV, 40}}
	bodLadder   = []step{{CategoryI, 3.0}, {CategoryII, 3.0}, {CategoryIII, 4.0}, {CategoryIV, 6.0}, {CategoryV, 10.0}}

	// Dissolved oxygen uses inclusive lower bounds: more oxygen is better.
	oxygenLadder = []step{{CategoryI, 7.5}, {CategoryII, 6.0}, {CategoryIII, 5.0}, {CategoryIV, 3.0}, {CategoryV, 2.0}}
)

const (
	phLower = 6.0
	phUpper = 9.0
)

func classifyUpper(v float64, ladder []step) Category {
	for _, s := range ladder {
		if v <= s.bound {
			return s.category
		}
	}
	return CategoryInferiorV
}

func classifyLower(v float64, ladder []step) Category {
	for _, s := range ladder {
		if v >= s.bound {
			return s.category
		}
	}
	return CategoryInferiorV
}

// ParseReading parses a raw reading as a finite real number. Surrounding
// whitespace and full-width digits are accepted; NaN, infinities, hex floats
// and digit separators are not.
func ParseReading(raw string) (float64, bool) {
	s := Normalize(raw)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ClassifyPH is two-sided: 6.0–9.0 inclusive is I类, anything else 劣V类.
func ClassifyPH(v float64) Category {
	if !finite(v) {
		return ""
	}
	if v >= phLower && v <= phUpper {
		return CategoryI
	}
	return CategoryInferiorV
}

func ClassifyDissolvedOxygen(v float64) Category {
	if !finite(v) {
		return ""
	}
	return classifyLower(v, oxygenLadder)
}

func ClassifyPermanganateIndex(v float64) Category {
	if !finite(v) {
		return ""
	}
	return classifyUpper(v, permanganateLadder)
}

// ClassifyChemicalOxygenDemand never yields II类.
func ClassifyChemicalOxygenDemand(v float64) Category {
	if !finite(v) {
		return ""
	}
	return classifyUpper(v, codCrLadder)
}

func ClassifyAmmoniaNitrogen(v float64) Category {
	if !finite(v) {
		return ""
	}
	return classifyUpper(v, ammoniaLadder)
}

// ClassifyTotalPhosphorus uses the river ladder.
func ClassifyTotalPhosphorus(v float64) Category {
	if !finite(v) {
		return ""
	}
	return classifyUpper(v, riverTPLadder)
}

func ClassifyTotalPhosphorusLake(v float64) Category {
	if !finite(v) {
		return ""
	}
	return classifyUpper(v, lakeTPLadder)
}

func ClassifyTotalNitrogen(v float64) Category {
	if !finite(v) {
		return ""
	}
	return classifyUpper(v, nitrogenLadder)
}

// ClassifyBOD never yields II类.
func ClassifyBOD(v float64) Category {
	if !finite(v) {
		return ""
	}
	return classifyUpper(v, bodLadder)
}

// Classifier holds the per-session state needed for phosphorus: the default
// water body type and an optional registry of lake stations. It is safe for
// concurrent use as long as the registry is not mutated concurrently.
type Classifier struct {
	defaultWater WaterBodyType
	stations     *StationRegistry
}

// NewClassifier creates a Classifier. An unspecified default means river.
// stations may be nil.
func NewClassifier(defaultWater WaterBodyType, stations *StationRegistry) *Classifier {
	if defaultWater == WaterUnspecified {
		defaultWater = WaterRiver
	}
	return &Classifier{defaultWater: defaultWater, stations: stations}
}

// DefaultWaterType returns the configured fallback water body type.
func (c *Classifier) DefaultWaterType() WaterBodyType { return c.defaultWater }

// Stations returns the registry consulted for phosphorus, possibly nil.
func (c *Classifier) Stations() *StationRegistry { return c.stations }

// ResolveWaterType applies the precedence explicit > station membership >
// default. Membership uses fuzzy matching.
func (c *Classifier) ResolveWaterType(station string, explicit WaterBodyType) WaterBodyType {
	if explicit != WaterUnspecified {
		return explicit
	}
	if station != "" && c.stations.IsMember(station, true) {
		return WaterLake
	}
	return c.defaultWater
}

// ClassifyTotalPhosphorusByType picks the river or lake ladder for v.
func (c *Classifier) ClassifyTotalPhosphorusByType(v float64, station string, explicit WaterBodyType) Category {
	if c.ResolveWaterType(station, explicit) == WaterLake {
		return ClassifyTotalPhosphorusLake(v)
	}
	return ClassifyTotalPhosphorus(v)
}

// ClassifyValue dispatches v to the classifier of metric. waterType and
// station only matter for total phosphorus. Unknown metrics yield "".
func (c *Classifier) ClassifyValue(metric MetricID, v float64, waterType WaterBodyType, station string) Category {
	switch metric {
	case MetricPH:
		return ClassifyPH(v)
	case MetricDissolvedOxygen:
		return ClassifyDissolvedOxygen(v)
	case MetricPermanganateIndex:
		return ClassifyPermanganateIndex(v)
	case MetricChemicalOxygenDemand:
		return ClassifyChemicalOxygenDemand(v)
	case MetricAmmoniaNitrogen:
		return ClassifyAmmoniaNitrogen(v)
	case MetricTotalPhosphorus:
		return c.ClassifyTotalPhosphorusByType(v, station, waterType)
	case MetricTotalNitrogen:
		return ClassifyTotalNitrogen(v)
	case MetricBOD:
		return ClassifyBOD(v)
	default:
		return ""
	}
}

// Classify parses raw strictly and classifies it. Unparseable input yields "".
func (c *Classifier) Classify(metric MetricID, raw string, waterType WaterBodyType, station string) Category {
	v, ok := ParseReading(raw)
	if !ok {
		return ""
	}
	return c.ClassifyValue(metric, v, waterType, station)
}

// ClassifyByHeader recognizes the metric named by header and classifies raw.
// It returns "" when the header is not a regulated metric.
func (c *Classifier) ClassifyByHeader(header, raw string, waterType WaterBodyType, station string) Category {
	metric, ok := RecognizeMetric(header)
	if !ok {
		return ""
	}
	return c.Classify(metric, raw, waterType, station)
}
