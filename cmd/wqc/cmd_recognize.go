package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

func (a *app) recognizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recognize <header>...",
		Short: "Identify the metric named by spreadsheet headers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, label := range args {
				metric, ok := domain.RecognizeMetric(label)
				if !ok {
					fmt.Fprintf(out, "%s\t-\n", label)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", label, metric, metric.DisplayName())
			}
			return nil
		},
	}
}
