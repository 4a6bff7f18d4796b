package domain

import (
	"regexp"
	"strings"
)

// MetricID identifies one of the regulated water-quality metrics.
type MetricID string

const (
	MetricPH                   MetricID = "pH"
	MetricDissolvedOxygen      MetricID = "DO"
	MetricPermanganateIndex    MetricID = "CODMn"
	MetricChemicalOxygenDemand MetricID = "CODCr"
	MetricAmmoniaNitrogen      MetricID = "NH3-N"
	MetricTotalPhosphorus      MetricID = "TP"
	MetricTotalNitrogen        MetricID = "TN"
	MetricBOD                  MetricID = "BOD5"
)

// Metrics lists every MetricID in report column order.
var Metrics = []MetricID{
	MetricPH,
	MetricDissolvedOxygen,
	MetricPermanganateIndex,
	MetricChemicalOxygenDemand,
	MetricAmmoniaNitrogen,
	MetricTotalPhosphorus,
	MetricTotalNitrogen,
	MetricBOD,
}

var metricNames = map[MetricID]string{
	MetricPH:                   "pH",
	MetricDissolvedOxygen:      "溶解氧",
	MetricPermanganateIndex:    "高锰酸盐指数",
	MetricChemicalOxygenDemand: "化学需氧量",
	MetricAmmoniaNitrogen:      "氨氮",
	MetricTotalPhosphorus:      "总磷",
	MetricTotalNitrogen:        "总氮",
	MetricBOD:                  "生化需氧量",
}

// DisplayName returns the Chinese report name of the metric.
func (m MetricID) DisplayName() string {
	if name, ok := metricNames[m]; ok {
		return name
	}
	return string(m)
}

// Valid reports whether m is a known metric.
func (m MetricID) Valid() bool {
	_, ok := metricNames[m]
	return ok
}

func (m MetricID) String() string { return string(m) }

// Latin abbreviations must stand alone so that e.g. "phosphate" is not pH and
// "dosage" is not DO. CJK neighbours count as boundaries.
var (
	phRe      = regexp.MustCompile(`(^|[^a-z])ph([^a-z]|$)`)
	doRe      = regexp.MustCompile(`(^|[^a-z])do([^a-z]|$)`)
	codMnRe   = regexp.MustCompile(`cod[_-]?(mn|\(mn\))`)
	codCrRe   = regexp.MustCompile(`cod[_-]?(cr|\(cr\))`)
	codRe     = regexp.MustCompile(`(^|[^a-z])cod([^a-z]|$)`)
	ammoniaRe = regexp.MustCompile(`nh-?3-?n`)
	tpRe      = regexp.MustCompile(`(^|[^a-z])tp([^a-z]|$)`)
	tnRe      = regexp.MustCompile(`(^|[^a-z])tn([^a-z]|$)`)
	bodRe     = regexp.MustCompile(`(^|[^a-z])bod([^a-z]|$)`)
)

// metricRule is one step of the recognition chain.
type metricRule struct {
	metric MetricID
	terms  []string
	re     *regexp.Regexp
}

func (r metricRule) matches(label string) bool {
	for _, term := range r.terms {
		if strings.Contains(label, term) {
			return true
		}
	}
	return r.re != nil && r.re.MatchString(label)
}

// recognitionChain is evaluated in order and the first match wins. The
// permanganate forms must precede every generic "cod" rule.
var recognitionChain = []metricRule{
	{metric: MetricPH, re: phRe},
	{metric: MetricDissolvedOxygen, terms: []string{"溶解氧"}, re: doRe},
	{metric: MetricPermanganateIndex, terms: []string{"高锰酸"}, re: codMnRe},
	{metric: MetricChemicalOxygenDemand, terms: []string{"化学需氧量"}, re: codCrRe},
	{metric: MetricChemicalOxygenDemand, re: codRe},
	{metric: MetricAmmoniaNitrogen, terms: []string{"氨氮"}, re: ammoniaRe},
	{metric: MetricTotalPhosphorus, terms: []string{"总磷"}, re: tpRe},
	{metric: MetricTotalNitrogen, terms: []string{"总氮"}, re: tnRe},
	{metric: MetricBOD, terms: []string{"生化需氧量"}, re: bodRe},
}

// RecognizeMetric maps an arbitrary column header to its canonical metric.
// It returns false when the label names none of the regulated metrics.
func RecognizeMetric(label string) (MetricID, bool) {
	n := NormalizeMetricLabel(label)
	if n == "" {
		return "", false
	}
	for _, rule := range recognitionChain {
		if rule.matches(n) {
			return rule.metric, true
		}
	}
	return "", false
}
