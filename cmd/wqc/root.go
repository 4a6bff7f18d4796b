package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IceRain5491/WaterQualityClassifier/internal/adapter/stationcsv"
	"github.com/IceRain5491/WaterQualityClassifier/internal/config"
	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

// app holds the persistent flags shared by every subcommand.
type app struct {
	defaultWater string
	lakeStations []string
	stationsCSV  string
	paletteFile  string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "wqc",
		Short:        "Classify surface-water monitoring readings",
		Long:         "wqc grades water-quality readings against the I–劣V category scale,\naggregates per-metric categories and writes colored spreadsheet reports.",
		Version:      version,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.defaultWater, "default-water-type", "河流", "water body type for stations not known to be lakes (河流/湖库, river/lake)")
	pf.StringSliceVar(&a.lakeStations, "lake-stations", nil, "comma-separated lake or reservoir station names")
	pf.StringVar(&a.stationsCSV, "stations", "", "station mapping CSV (name, coordinates, water type, group)")
	pf.StringVar(&a.paletteFile, "palette", "", "YAML file with color and category synonym overrides")

	root.AddCommand(
		a.recognizeCmd(),
		a.classifyCmd(),
		a.overallCmd(),
		a.boundariesCmd(),
		a.standardsCmd(),
		a.reportCmd(),
		a.stationsCmd(),
	)
	return root
}

// directory loads the station CSV, or returns nil when none is configured.
func (a *app) directory() (*stationcsv.Directory, error) {
	if a.stationsCSV == "" {
		return nil, nil
	}
	dir, err := stationcsv.Load(a.stationsCSV)
	if err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}
	return dir, nil
}

// classifier builds a classifier whose registry holds the --lake-stations
// names plus every lake station of dir.
func (a *app) classifier(dir *stationcsv.Directory) (*domain.Classifier, error) {
	water := domain.ParseWaterBodyType(a.defaultWater)
	if water == domain.WaterUnspecified {
		return nil, fmt.Errorf("invalid --default-water-type %q: want river or lake", a.defaultWater)
	}
	registry := domain.NewStationRegistry(a.lakeStations...)
	if dir != nil {
		for _, name := range dir.LakeStations() {
			registry.Add(name)
		}
	}
	return domain.NewClassifier(water, registry), nil
}

func (a *app) display() (config.Display, error) {
	return config.LoadDisplay(a.paletteFile)
}
