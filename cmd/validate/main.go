// Command validate performs end-to-end integrity checks across the mock data
// set produced by genmock: the station mapping CSV, the raw observations and
// the assessments fixture. It re-runs station enrichment and evaluation and
// verifies that every assessment matches, along with the category invariants
// consumers rely on.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -stations data/mock/stations.csv \
//	  -observations data/mock/observations.json \
//	  -assessments data/mock/assessments.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/IceRain5491/WaterQualityClassifier/internal/adapter/stationcsv"
	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	stationsCSV := flag.String("stations", "", "path to the station mapping CSV")
	obsJSON := flag.String("observations", "", "path to the raw observations JSON fixture")
	assessJSON := flag.String("assessments", "", "path to the assessments JSON fixture")
	flag.Parse()

	if *stationsCSV == "" || *obsJSON == "" || *assessJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(os.Stdout, *stationsCSV, *obsJSON, *assessJSON))
}

func run(w io.Writer, stationsPath, obsPath, assessPath string) int {
	fmt.Fprintln(w, "=== Water Quality Data Integrity Validation ===")
	fmt.Fprintln(w)

	dir, err := stationcsv.Load(stationsPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load stations: %v\n", err)
		return 1
	}
	observations, err := loadJSON[domain.RawObservation](obsPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load observations: %v\n", err)
		return 1
	}
	assessments, err := loadJSON[domain.Assessment](assessPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load assessments: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateStations(dir),
		validateObservations(observations, dir),
		validateReevaluation(observations, assessments, dir),
		validateCategoryInvariants(assessments),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d stations, %d observations, %d assessments\n",
		dir.Len(), len(observations), len(assessments))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Station Directory ──

func validateStations(dir *stationcsv.Directory) *phase {
	p := &phase{name: "Phase 1: Station Directory (CSV)"}
	if dir.Len() == 0 {
		p.errorf("no stations")
	}
	for _, s := range dir.Stations() {
		if s.WaterType == domain.WaterUnspecified {
			p.errorf("%s: water type missing", s.Name)
		}
		if s.Lon == 0 && s.Lat == 0 {
			p.errorf("%s: coordinates are both zero", s.Name)
		}
		if s.Group == "" {
			p.errorf("%s: group missing", s.Name)
		}
	}
	return p
}

// ── Phase 2: Observation Integrity ──

func validateObservations(observations []domain.RawObservation, dir *stationcsv.Directory) *phase {
	p := &phase{name: "Phase 2: Observation Integrity"}
	seen := map[string]int{}
	for i, obs := range observations {
		pf := func(format string, args ...any) {
			p.errorf("observation %d (%s %s): "+format, append([]any{i, obs.Station, obs.SampledAt}, args...)...)
		}
		if strings.TrimSpace(obs.Station) == "" {
			pf("station is empty")
		} else if _, ok := dir.LookupStation(obs.Station); !ok {
			pf("station not in directory")
		}
		if _, err := time.Parse("2006-01-02", obs.SampledAt); err != nil {
			pf("sampled_at is not a date")
		}
		if obs.WaterType != "" && domain.ParseWaterBodyType(obs.WaterType) == domain.WaterUnspecified {
			pf("unknown water_type %q", obs.WaterType)
		}

		recognized := 0
		for _, r := range obs.Readings {
			if _, ok := domain.RecognizeMetric(r.Label); ok {
				recognized++
			}
		}
		if recognized == 0 {
			pf("no regulated metric columns")
		}

		key := domain.NormalizeStationName(obs.Station) + "|" + obs.SampledAt
		if first, dup := seen[key]; dup {
			pf("duplicates observation %d", first)
		} else {
			seen[key] = i
		}
	}
	return p
}

// ── Phase 3: Re-evaluation ──
// Re-runs enrichment and evaluation and compares with the assessments fixture.

var ignoreVolatile = cmpopts.IgnoreFields(domain.Assessment{}, "EvaluatedAt", "RawPayload")

func validateReevaluation(observations []domain.RawObservation, assessments []domain.Assessment, dir *stationcsv.Directory) *phase {
	p := &phase{name: "Phase 3: Re-evaluation (assessments)"}

	if len(observations) != len(assessments) {
		p.errorf("count: %d observations, %d assessments", len(observations), len(assessments))
	}

	byID := make(map[string]*domain.Assessment, len(assessments))
	for i := range assessments {
		if assessments[i].ID == "" {
			p.errorf("assessment %d: missing ID", i)
			continue
		}
		byID[assessments[i].ID] = &assessments[i]
	}

	registry := domain.NewStationRegistry(dir.LakeStations()...)
	classifier := domain.NewClassifier(domain.WaterRiver, registry)
	logger := slog.New(slog.DiscardHandler)

	for i, obs := range observations {
		want := domain.EvaluateObservation(classifier, domain.EnrichWithStation(obs, dir, logger))
		got, ok := byID[want.ID]
		if !ok {
			p.errorf("observation %d (%s %s): ID %q not in assessments", i, obs.Station, obs.SampledAt, want.ID)
			continue
		}
		if diff := cmp.Diff(want, *got, ignoreVolatile, cmpopts.EquateEmpty()); diff != "" {
			p.errorf("ID %s: mismatch (-want +got):\n%s", want.ID, diff)
		}
	}
	return p
}

// ── Phase 4: Category Invariants ──

func validateCategoryInvariants(assessments []domain.Assessment) *phase {
	p := &phase{name: "Phase 4: Category Invariants"}
	for i := range assessments {
		checkAssessment(p, i, &assessments[i])
	}
	return p
}

func checkAssessment(p *phase, i int, a *domain.Assessment) {
	pf := func(format string, args ...any) {
		p.errorf("assessment %d (ID %s): "+format, append([]any{i, a.ID}, args...)...)
	}

	if !strings.HasPrefix(a.ID, "wq-") {
		pf("id lacks the wq- prefix")
	}
	if a.EvaluatedAt.IsZero() {
		pf("evaluated_at is zero")
	}
	if wt := domain.ParseWaterBodyType(a.WaterType); wt == domain.WaterUnspecified {
		pf("water_type %q is not river or lake", a.WaterType)
	}

	categories := a.Categories()
	for _, c := range categories {
		if !c.Valid() {
			pf("category %q is not canonical", c)
		}
	}
	if want := domain.WorstCategory(categories); a.Overall != want {
		pf("overall %q, worst per-metric category is %q", a.Overall, want)
	}

	var iv, v, inferior int
	for _, r := range a.Results {
		if r.Category != "" && r.Metric == "" {
			pf("column %q has a category but no metric", r.Label)
		}
		if r.Category != "" && r.Value == nil {
			pf("column %q has a category but no value", r.Label)
		}
		switch r.Category {
		case domain.CategoryIV:
			iv++
		case domain.CategoryV:
			v++
		case domain.CategoryInferiorV:
			inferior++
		}
	}
	if len(a.FactorsIV) != iv || len(a.FactorsV) != v || len(a.FactorsInferiorV) != inferior {
		pf("factor lists (%d/%d/%d) disagree with results (%d/%d/%d)",
			len(a.FactorsIV), len(a.FactorsV), len(a.FactorsInferiorV), iv, v, inferior)
	}
}
