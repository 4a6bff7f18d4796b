package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

func (a *app) overallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overall <category>...",
		Short: "Rate a set of per-metric categories by the worst one",
		Long:  "Rate a set of per-metric categories by the worst one. Spellings such as Ⅲ, 3, iii类,\n劣五类 and configured synonyms are accepted; unrecognized text is ignored.",
		RunE: func(cmd *cobra.Command, args []string) error {
			display, err := a.display()
			if err != nil {
				return err
			}
			canonical := make([]string, len(args))
			for i, raw := range args {
				canonical[i] = string(display.Categories.Normalize(raw))
			}
			overall := domain.OverallCategory(canonical)
			if overall == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "(no recognized category)")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), overall)
			return nil
		},
	}
}
