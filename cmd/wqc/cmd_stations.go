package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) stationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stations",
		Short: "List the stations of the --stations CSV by group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.stationsCSV == "" {
				return errors.New("--stations is required")
			}
			dir, err := a.directory()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "点位\t分组\t水体类型\t经度\t纬度")
			for _, s := range dir.Stations() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%g\n", s.Name, s.Group, s.WaterType, s.Lon, s.Lat)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d stations, %d lake, groups: %v\n",
				dir.Len(), len(dir.LakeStations()), dir.GroupNames())
			return nil
		},
	}
}
