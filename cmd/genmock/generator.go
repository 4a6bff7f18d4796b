package main

import (
	"fmt"
	"strconv"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

// metricProfile describes how one metric appears in generated exports.
type metricProfile struct {
	labels   []string // header spellings seen in real exports
	min, max float64
	decimals int
	limit    string // detection limit written as "<limit"
}

var metricProfiles = []metricProfile{
	{labels: []string{"pH", "pH值"}, min: 5.6, max: 9.4, decimals: 1},
	{labels: []string{"溶解氧", "DO", "溶解氧(mg/L)"}, min: 1.5, max: 9.5, decimals: 1},
	{labels: []string{"高锰酸盐指数", "COD(Mn)", "CODMn"}, min: 1, max: 16, decimals: 1},
	{labels: []string{"化学需氧量", "CODcr", "COD(Cr)"}, min: 8, max: 45, decimals: 0, limit: "4"},
	{labels: []string{"氨氮", "NH3-N", "氨氮(NH₃-N)"}, min: 0.05, max: 2.4, decimals: 2, limit: "0.025"},
	{labels: []string{"总磷", "TP", "总磷(mg/L)"}, min: 0.005, max: 0.45, decimals: 3, limit: "0.01"},
	{labels: []string{"总氮", "TN"}, min: 0.1, max: 2.5, decimals: 2},
	{labels: []string{"生化需氧量", "BOD5", "五日生化需氧量"}, min: 1, max: 12, decimals: 1, limit: "2"},
}

var (
	stationPrefixes = []string{
		"朱家尖", "东港", "甬江", "姚江", "奉化江", "慈湖", "四明湖", "横山",
		"皎口", "亭下", "周公宅", "白溪", "梅湖", "溪口", "三江口", "澥浦",
	}
	lakeSuffixes  = []string{"水库", "湖"}
	riverSuffixes = []string{"大桥", "闸", "渡口"}
	groups        = []string{"江北", "鄞州", "海曙", "北仑", "镇海", "奉化"}
	missingTokens = []string{"未检出", "--", "", "ND"}
)

// generator wraps a seeded faker so every run with the same seed produces the
// same data set.
type generator struct {
	f *gofakeit.Faker
}

func newGenerator(seed int64) *generator {
	return &generator{f: gofakeit.New(seed)}
}

// stations returns n uniquely named stations, roughly a third of them lakes.
func (g *generator) stations(n int) []domain.StationInfo {
	prefixes := append([]string(nil), stationPrefixes...)
	g.f.ShuffleStrings(prefixes)

	out := make([]domain.StationInfo, 0, n)
	for i := 0; i < n; i++ {
		water := domain.WaterRiver
		suffix := g.f.RandomString(riverSuffixes)
		if g.f.Number(1, 3) == 1 {
			water = domain.WaterLake
			suffix = g.f.RandomString(lakeSuffixes)
		}

		name := prefixes[i%len(prefixes)] + suffix
		if lap := i / len(prefixes); lap > 0 {
			name += strconv.Itoa(lap+1) + "号"
		}
		out = append(out, domain.StationInfo{
			Name:      name,
			Lon:       round(g.f.Float64Range(121.2, 122.3), 4),
			Lat:       round(g.f.Float64Range(29.4, 30.2), 4),
			WaterType: water,
			Group:     g.f.RandomString(groups),
		})
	}
	return out
}

// observations returns days weekly samples per station. Each station keeps
// one header spelling per metric and skips some metrics entirely.
func (g *generator) observations(stations []domain.StationInfo, days int) []domain.RawObservation {
	out := make([]domain.RawObservation, 0, len(stations)*days)
	for _, s := range stations {
		type column struct {
			label   string
			profile metricProfile
		}
		var columns []column
		for _, profile := range metricProfiles {
			if g.f.Number(1, 10) == 1 {
				continue
			}
			columns = append(columns, column{label: g.f.RandomString(profile.labels), profile: profile})
		}

		explicit := ""
		if s.WaterType == domain.WaterRiver && g.f.Number(1, 5) == 1 {
			explicit = domain.WaterRiver.String()
		}

		for d := 0; d < days; d++ {
			obs := domain.RawObservation{
				Station:   s.Name,
				SampledAt: firstSample.AddDate(0, 0, 7*d).Format("2006-01-02"),
				WaterType: explicit,
			}
			for _, c := range columns {
				obs.Readings = append(obs.Readings, domain.RawReading{
					Label: c.label,
					Value: domain.ReadingValue(g.reading(c.profile)),
				})
			}
			obs.Readings = append(obs.Readings, domain.RawReading{
				Label: "水温",
				Value: domain.ReadingValue(strconv.FormatFloat(round(g.f.Float64Range(12, 28), 1), 'f', 1, 64)),
			})
			out = append(out, obs)
		}
	}
	return out
}

// reading draws a value in the metric's range. About one in twenty readings
// is missing and, for metrics with a detection limit, one in twenty is
// below it.
func (g *generator) reading(profile metricProfile) string {
	switch n := g.f.Number(1, 20); {
	case n == 1:
		return g.f.RandomString(missingTokens)
	case n == 2 && profile.limit != "":
		return "<" + profile.limit
	}
	v := round(g.f.Float64Range(profile.min, profile.max), profile.decimals)
	return strconv.FormatFloat(v, 'f', profile.decimals, 64)
}

func round(v float64, decimals int) float64 {
	f, err := strconv.ParseFloat(fmt.Sprintf("%.*f", decimals, v), 64)
	if err != nil {
		return v
	}
	return f
}
