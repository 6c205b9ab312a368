package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"monthcal/src-server/utils"

	"github.com/spf13/cobra"
)

// app opens the AppState lazily so --help never touches the database.
type app struct {
	as  *utils.AppState
	now func() time.Time
}

func (a *app) open(cmd *cobra.Command, args []string) error {
	if a.as != nil {
		return nil
	}
	as, err := utils.NewAppState(cmd.Context(), utils.NewConfig())
	if err != nil {
		return fmt.Errorf("can't open the calendar: %w", err)
	}
	a.as = as
	return nil
}

func (a *app) close() {
	if a.as != nil {
		a.as.GracefulShutdown()
		a.as = nil
	}
}

func newRootCmd(a *app) *cobra.Command {
	if a.now == nil {
		a.now = time.Now
	}

	rootCmd := &cobra.Command{
		Use:   "monthcal",
		Short: "A month calendar with per-day events",
		Long: `Keep events on a month grid, one list per day.

Days and months accept YYYY-MM-DD / YYYY-MM or plain words like
"tomorrow" or "next friday".

  grid     Print a month
  list     List a day's events
  add      Add an event
  delete   Delete an event
  move     Move an event to another day or position
  export   Write a month of events as json, csv or ics
  serve    Run the HTTP API
  tui      Open the interactive calendar`,
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
	}

	rootCmd.AddCommand(
		newGridCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newDeleteCmd(a),
		newMoveCmd(a),
		newExportCmd(a),
		newServeCmd(a),
		newTuiCmd(a),
	)
	return rootCmd
}

func Execute() {
	a := new(app)
	err := newRootCmd(a).ExecuteContext(context.Background())
	a.close()
	if err != nil {
		os.Exit(1)
	}
}
