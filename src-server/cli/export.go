package cli

import (
	"fmt"

	"monthcal/src-server/export"
	"monthcal/src-server/utils"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var month, format, dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a month of events to a file",
		Long: `Write the events of a month to events_<Month>_<Year>.<format> in the
export directory (EXPORT_DIR, or --dir).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			anchor, err := utils.ParseMonth(a.as.When, month, a.now())
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = a.as.Config.GetExportDir()
			}

			file, err := export.Export(a.as.Store.Snapshot(), anchor, f)
			if err != nil {
				return err
			}
			path, err := export.WriteFile(dir, file)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month to export (YYYY-MM), defaults to this month")
	cmd.Flags().StringVar(&format, "format", string(export.FormatJSON), "json, csv or ics")
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory, defaults to EXPORT_DIR")
	return cmd
}
