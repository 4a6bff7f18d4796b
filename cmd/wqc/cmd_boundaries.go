package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

func (a *app) boundariesCmd() *cobra.Command {
	var flags struct {
		metric    string
		waterType string
		visual    bool
	}

	cmd := &cobra.Command{
		Use:   "boundaries",
		Short: "List the category bounds of a metric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			metric, ok := domain.RecognizeMetric(flags.metric)
			if !ok {
				return fmt.Errorf("unrecognized metric %q", flags.metric)
			}
			water := domain.ParseWaterBodyType(flags.waterType)
			if water == domain.WaterUnspecified {
				water = domain.ParseWaterBodyType(a.defaultWater)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s, %s)\n", metric.DisplayName(), metric, water)
			if !flags.visual {
				for _, b := range domain.Boundaries(metric, water) {
					fmt.Fprintf(out, "  %-8s %s\n", b.Label, domain.FormatReading(b.Value))
				}
				return nil
			}
			display, err := a.display()
			if err != nil {
				return err
			}
			for _, b := range domain.VisualBoundaries(metric, water, display.Palette) {
				fmt.Fprintf(out, "  %-8s %-8s %s\n", b.Label, domain.FormatReading(b.Value), b.Color)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.metric, "metric", "", "metric header or ID (required)")
	f.StringVar(&flags.waterType, "water-type", "", "河流/湖库; defaults to --default-water-type")
	f.BoolVar(&flags.visual, "visual", false, "include chart colors")
	_ = cmd.MarkFlagRequired("metric")
	return cmd
}
