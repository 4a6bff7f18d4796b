package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

func (a *app) standardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standards",
		Short: "Print the category limits of every metric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			header := make([]string, 0, len(domain.Categories)+1)
			header = append(header, "指标")
			for _, c := range domain.Categories {
				header = append(header, string(c))
			}
			fmt.Fprintln(tw, strings.Join(header, "\t"))
			for _, row := range domain.StandardsTable() {
				fmt.Fprintln(tw, row.Name+"\t"+strings.Join(row.Cells, "\t"))
			}
			return tw.Flush()
		},
	}
}
