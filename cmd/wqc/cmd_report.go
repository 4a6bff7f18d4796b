package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/IceRain5491/WaterQualityClassifier/internal/adapter/xlsx"
	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
	"github.com/IceRain5491/WaterQualityClassifier/internal/observability"
)

func (a *app) reportCmd() *cobra.Command {
	var flags struct {
		in           string
		out          string
		sheet        string
		noCategories bool
		location     bool
		logLevel     string
	}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Evaluate observations and append them to an xlsx report",
		Long: "Evaluate a JSON array of observations and append one row per observation to an\n" +
			"xlsx workbook, creating it if needed. Category cells are filled with their\n" +
			"palette color. Use --in - to read from stdin.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := observability.Component(
				observability.NewLoggerTo(cmd.ErrOrStderr(), flags.logLevel, "text"), "report")

			observations, err := readObservations(cmd.InOrStdin(), flags.in)
			if err != nil {
				return err
			}
			dir, err := a.directory()
			if err != nil {
				return err
			}
			classifier, err := a.classifier(dir)
			if err != nil {
				return err
			}
			display, err := a.display()
			if err != nil {
				return err
			}

			var stations domain.StationDirectory
			if dir != nil {
				stations = dir
			}
			assessments := make([]domain.Assessment, 0, len(observations))
			for _, obs := range observations {
				obs = domain.EnrichWithStation(obs, stations, logger)
				assessments = append(assessments, domain.EvaluateObservation(classifier, obs))
			}

			opts := xlsx.Options{
				Sheet:             flags.sheet,
				Palette:           display.Palette,
				Categories:        display.Categories,
				IncludeCategories: !flags.noCategories,
				IncludeLocation:   flags.location,
			}
			if err := xlsx.SaveReport(flags.out, assessments, opts); err != nil {
				return err
			}
			logger.Info("report written", "path", flags.out, "rows", len(assessments))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(assessments), flags.out)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.in, "in", "", "observations JSON file, or - for stdin (required)")
	f.StringVar(&flags.out, "out", "", "xlsx report path (required)")
	f.StringVar(&flags.sheet, "sheet", xlsx.DefaultSheet, "worksheet name")
	f.BoolVar(&flags.noCategories, "no-categories", false, "omit the per-metric category columns")
	f.BoolVar(&flags.location, "location", false, "add longitude and latitude columns")
	f.StringVar(&flags.logLevel, "log-level", "warn", "stderr log level")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func readObservations(stdin io.Reader, path string) ([]domain.RawObservation, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read observations: %w", err)
	}
	var observations []domain.RawObservation
	if err := json.Unmarshal(data, &observations); err != nil {
		return nil, fmt.Errorf("parse observations %s: %w", path, err)
	}
	return observations, nil
}
