// Command genmock generates a reproducible synthetic monitoring data set: a
// station mapping CSV, raw observations for the source topic, and the
// assessments the pipeline produces for them. It runs the actual domain
// evaluation so the assessment fixture matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -stations-out data/mock/stations.csv \
//	  -obs-out data/mock/observations.json \
//	  -assess-out data/mock/assessments.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

// evaluatedAt is the fixed clock used for reproducible EvaluatedAt timestamps.
var evaluatedAt = time.Date(2024, time.June, 1, 6, 0, 0, 0, time.UTC)

var firstSample = time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	seed := flag.Int64("seed", 20240501, "random seed")
	stationCount := flag.Int("stations", 12, "number of stations")
	days := flag.Int("days", 6, "sampling dates per station")
	stationsOut := flag.String("stations-out", "", "output path for the station mapping CSV")
	obsOut := flag.String("obs-out", "", "output path for the raw observations JSON")
	assessOut := flag.String("assess-out", "", "output path for the assessments JSON")
	flag.Parse()

	if *stationsOut == "" || *obsOut == "" || *assessOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -stations-out, -obs-out, -assess-out")
	}

	g := newGenerator(*seed)
	stations := g.stations(*stationCount)
	observations := g.observations(stations, *days)
	log.Printf("generated %d stations, %d observations", len(stations), len(observations))

	domain.SetClock(clockwork.NewFakeClockAt(evaluatedAt))
	defer domain.SetClock(nil)
	assessments := evaluate(stations, observations)

	if err := writeStationsCSV(*stationsOut, stations); err != nil {
		return fmt.Errorf("writing stations CSV: %w", err)
	}
	log.Printf("wrote stations: %s", *stationsOut)

	if err := writeJSON(*obsOut, observations); err != nil {
		return fmt.Errorf("writing observations fixture: %w", err)
	}
	log.Printf("wrote observations fixture: %s", *obsOut)

	if err := writeJSON(*assessOut, assessments); err != nil {
		return fmt.Errorf("writing assessments fixture: %w", err)
	}
	log.Printf("wrote assessments fixture: %s", *assessOut)

	printStats(os.Stdout, assessments)
	return nil
}

// stationDirectory is an in-memory domain.StationDirectory keyed by exact name.
type stationDirectory map[string]domain.StationInfo

func (d stationDirectory) LookupStation(name string) (domain.StationInfo, bool) {
	info, ok := d[domain.NormalizeStationName(name)]
	return info, ok
}

// evaluate runs the observations through station enrichment and evaluation
// with a registry seeded from the lake stations, as cmd/etl does.
func evaluate(stations []domain.StationInfo, observations []domain.RawObservation) []domain.Assessment {
	dir := make(stationDirectory, len(stations))
	registry := domain.NewStationRegistry()
	for _, s := range stations {
		dir[domain.NormalizeStationName(s.Name)] = s
		if s.WaterType == domain.WaterLake {
			registry.Add(s.Name)
		}
	}
	classifier := domain.NewClassifier(domain.WaterRiver, registry)
	logger := slog.New(slog.DiscardHandler)

	out := make([]domain.Assessment, 0, len(observations))
	for _, obs := range observations {
		obs = domain.EnrichWithStation(obs, dir, logger)
		out = append(out, domain.EvaluateObservation(classifier, obs))
	}
	return out
}

func writeStationsCSV(path string, stations []domain.StationInfo) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"名称", "经度", "纬度", "水体类型", "点位分组"}); err != nil {
		return err
	}
	for _, s := range stations {
		if err := w.Write([]string{
			s.Name,
			strconv.FormatFloat(s.Lon, 'f', 4, 64),
			strconv.FormatFloat(s.Lat, 'f', 4, 64),
			s.WaterType.String(),
			s.Group,
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// statsResult holds aggregated counts for printStats reporting.
type statsResult struct {
	overall     map[domain.Category]int
	perMetric   map[domain.MetricID]map[domain.Category]int
	unusable    map[domain.MetricID]int
	passThrough int
	lake        int
	factors     [3]int // IV, V, 劣V
}

func collectStats(assessments []domain.Assessment) statsResult {
	s := statsResult{
		overall:   map[domain.Category]int{},
		perMetric: map[domain.MetricID]map[domain.Category]int{},
		unusable:  map[domain.MetricID]int{},
	}
	for i := range assessments {
		a := &assessments[i]
		s.overall[a.Overall]++
		if a.WaterType == domain.WaterLake.String() {
			s.lake++
		}
		s.factors[0] += len(a.FactorsIV)
		s.factors[1] += len(a.FactorsV)
		s.factors[2] += len(a.FactorsInferiorV)
		for _, r := range a.Results {
			switch {
			case r.Metric == "":
				s.passThrough++
			case r.Category == "":
				s.unusable[r.Metric]++
			default:
				if s.perMetric[r.Metric] == nil {
					s.perMetric[r.Metric] = map[domain.Category]int{}
				}
				s.perMetric[r.Metric][r.Category]++
			}
		}
	}
	return s
}

func printStats(w io.Writer, assessments []domain.Assessment) {
	stats := collectStats(assessments)

	fmt.Fprintln(w, "\n=== Stats for updating test assertions ===")
	fmt.Fprintf(w, "Total: %d (lake phosphorus ladder: %d)\n", len(assessments), stats.lake)
	fmt.Fprint(w, "Overall:")
	for _, c := range append(append([]domain.Category{}, domain.Categories...), domain.NoData) {
		fmt.Fprintf(w, " %s=%d", c, stats.overall[c])
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Factors: IV=%d, V=%d, 劣V=%d\n", stats.factors[0], stats.factors[1], stats.factors[2])
	fmt.Fprintf(w, "Pass-through columns: %d\n", stats.passThrough)

	fmt.Fprintln(w, "\nPer metric:")
	metrics := make([]domain.MetricID, 0, len(stats.perMetric))
	for m := range stats.perMetric {
		metrics = append(metrics, m)
	}
	sort.Slice(metrics, func(i, j int) bool { return metricIndex(metrics[i]) < metricIndex(metrics[j]) })
	for _, m := range metrics {
		fmt.Fprintf(w, "  %-6s", m)
		for _, c := range domain.Categories {
			fmt.Fprintf(w, " %s=%d", c, stats.perMetric[m][c])
		}
		fmt.Fprintf(w, " unusable=%d\n", stats.unusable[m])
	}
}

func metricIndex(m domain.MetricID) int {
	for i, x := range domain.Metrics {
		if x == m {
			return i
		}
	}
	return len(domain.Metrics)
}
