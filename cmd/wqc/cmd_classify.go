package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

type classifyResult struct {
	Label     string          `json:"label"`
	Metric    domain.MetricID `json:"metric"`
	Value     *float64        `json:"value,omitempty"`
	Category  domain.Category `json:"category"`
	WaterType string          `json:"water_type,omitempty"`
	Color     string          `json:"color,omitempty"`
}

func (a *app) classifyCmd() *cobra.Command {
	var flags struct {
		metric    string
		value     string
		waterType string
		station   string
		asJSON    bool
	}

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Grade one reading",
		Long:  "Grade one reading. Values are cleaned first, so \"<0.05\" and \"0.12mg/L\" are accepted.\nAn unusable value prints an empty category rather than failing.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			metric, ok := domain.RecognizeMetric(flags.metric)
			if !ok {
				return fmt.Errorf("unrecognized metric %q", flags.metric)
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

			explicit := domain.ParseWaterBodyType(flags.waterType)
			res := classifyResult{Label: flags.metric, Metric: metric}
			if metric == domain.MetricTotalPhosphorus {
				res.WaterType = classifier.ResolveWaterType(flags.station, explicit).String()
			}
			if v, ok := domain.CoerceReading(flags.value); ok {
				res.Value = &v
				res.Category = classifier.ClassifyValue(metric, v, explicit, flags.station)
			}
			if res.Category != "" {
				res.Color = display.Palette.Color(string(res.Category), string(metric))
			}

			out := cmd.OutOrStdout()
			if flags.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			category := string(res.Category)
			if category == "" {
				category = "(no category)"
			}
			if res.WaterType != "" {
				fmt.Fprintf(out, "%s %s [%s]: %s\n", metric.DisplayName(), flags.value, res.WaterType, category)
			} else {
				fmt.Fprintf(out, "%s %s: %s\n", metric.DisplayName(), flags.value, category)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.metric, "metric", "", "metric header or ID, e.g. 氨氮 or NH3-N (required)")
	f.StringVar(&flags.value, "value", "", "raw reading (required)")
	f.StringVar(&flags.waterType, "water-type", "", "explicit water body type; overrides the station registry")
	f.StringVar(&flags.station, "station", "", "station name, consulted for phosphorus")
	f.BoolVar(&flags.asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("metric")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}
