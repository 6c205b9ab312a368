package cli

import (
	"monthcal/src-server/tui"

	"github.com/spf13/cobra"
)

func newTuiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), a.as.Store, a.as.Config.GetExportDir())
		},
	}
}
