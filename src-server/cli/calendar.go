package cli

import (
	"errors"
	"fmt"
	"strings"

	"monthcal/src-server/form"
	"monthcal/src-server/grid"
	"monthcal/src-server/model"
	"monthcal/src-server/utils"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newGridCmd(a *app) *cobra.Command {
	var month, selected, filter string

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print a month grid",
		Long:  `Print the weeks of a month with the number of events on each day.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			anchor, err := utils.ParseMonth(a.as.When, month, now)
			if err != nil {
				return err
			}
			viewState := grid.NewViewState(now).GoTo(anchor).WithFilter(strings.TrimSpace(filter))
			if selected != "" {
				day, err := utils.ParseDay(a.as.When, selected, now)
				if err != nil {
					return err
				}
				viewState = viewState.Select(day)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderGrid(viewState, viewState.Cells(a.as.Store, now)))
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month to show (YYYY-MM), defaults to this month")
	cmd.Flags().StringVar(&selected, "selected", "", "Day to highlight")
	cmd.Flags().StringVar(&filter, "filter", "", "Only count events matching this keyword")
	return cmd
}

// renderGrid prints one line per week. Days outside the month show as a dot,
// [..] marks the selected day and +n the number of events.
func renderGrid(viewState grid.ViewState, cells []grid.Cell) string {
	var b strings.Builder
	b.WriteString(viewState.Title() + "\n")
	for _, label := range grid.WeekdayLabels {
		b.WriteString(fmt.Sprintf(" %-7s", label))
	}
	b.WriteString("\n")
	for i, cell := range cells {
		label := fmt.Sprintf("%2d", cell.Date.Day())
		if !cell.InMonth {
			label = " ·"
		}
		if n := len(cell.Events); n > 0 {
			label += fmt.Sprintf("+%d", n)
		}
		if cell.IsSelected {
			label = "[" + label + "]"
		} else {
			label = " " + label + " "
		}
		b.WriteString(fmt.Sprintf("%-8s", label))
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func newListCmd(a *app) *cobra.Command {
	var day, filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a day's events",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := utils.ParseDay(a.as.When, day, a.now())
			if err != nil {
				return err
			}
			events := a.as.Store.Filter(key, strings.TrimSpace(filter))
			if len(events) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No events on %s\n", key)
				return nil
			}

			rows := make([][]string, 0, len(events))
			for _, e := range events {
				rows = append(rows, []string{
					fmt.Sprint(a.as.Store.IndexOf(key, e.ID)),
					e.StartTime + "-" + e.EndTime,
					e.Name,
					string(e.Color),
					e.Description,
					e.ID,
				})
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("#", "TIME", "NAME", "COLOR", "DESCRIPTION", "ID").
				Rows(rows...)
			fmt.Fprintln(cmd.OutOrStdout(), key.Time().Format("Monday, January 2 2006"))
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "Day to list, defaults to today")
	cmd.Flags().StringVar(&filter, "filter", "", "Only show events matching this keyword")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var day string
	entry := form.New()

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event to a day",
		Long:  `Add an event. It is rejected when it overlaps another event of the same day.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := utils.ParseDay(a.as.When, day, a.now())
			if err != nil {
				return err
			}
			result := entry.Submit(cmd.Context(), a.as.Store, key)
			if !result.OK() {
				if result.Err != nil && result.Conflict == nil && len(result.Fields) == 0 {
					return result.Err
				}
				return errors.New(result.Message())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s on %s, id %s\n", result.Message(), key, result.Event.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "Day of the event, defaults to today")
	cmd.Flags().StringVar(&entry.Name, "name", "", "Event name")
	cmd.Flags().StringVar(&entry.StartTime, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&entry.EndTime, "end", "", "End time (HH:MM)")
	cmd.Flags().StringVar(&entry.Description, "description", "", "Description")
	cmd.Flags().StringVar(&entry.Color, "color", string(model.ColorOther), "work, personal or other")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := utils.ParseDay(a.as.When, day, a.now())
			if err != nil {
				return err
			}
			if err := a.as.Store.DeleteEvent(cmd.Context(), key, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s from %s\n", args[0], key)
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "Day of the event, defaults to today")
	return cmd
}

func newMoveCmd(a *app) *cobra.Command {
	var from, to string
	var index, toIndex int

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move an event to another day or position",
		Long: `Move the event at --index on --from to --to-index on --to.
Indexes are positions in the day's list as printed by "list".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			source, err := utils.ParseDay(a.as.When, from, now)
			if err != nil {
				return err
			}
			dest, err := utils.ParseDay(a.as.When, to, now)
			if err != nil {
				return err
			}
			if err := a.as.Store.MoveEvent(cmd.Context(),
				model.Slot{Day: source, Index: index},
				&model.Slot{Day: dest, Index: toIndex},
			); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s #%d to %s #%d\n", source, index, dest, toIndex)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Source day, defaults to today")
	cmd.Flags().IntVar(&index, "index", 0, "Position of the event on the source day")
	cmd.Flags().StringVar(&to, "to", "", "Destination day, defaults to today")
	cmd.Flags().IntVar(&toIndex, "to-index", 0, "Position on the destination day, past the end appends")
	return cmd
}
