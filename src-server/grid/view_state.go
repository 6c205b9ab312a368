package grid

import (
	"time"

	"monthcal/src-server/export"
	"monthcal/src-server/model"
)

// ViewState is the session-only UI state. It is a value: every change
// returns a new ViewState and leaves the receiver alone.
type ViewState struct {
	month    time.Time
	selected model.DayKey
	filter   string
	format   export.Format
}

func NewViewState(today time.Time) ViewState {
	return ViewState{
		month:  StartOfMonth(today),
		format: export.FormatJSON,
	}
}

// Month is always the 1st of the displayed month.
func (v ViewState) Month() time.Time {
	return v.month
}

func (v ViewState) Selected() (model.DayKey, bool) {
	return v.selected, v.selected != ""
}

func (v ViewState) Filter() string {
	return v.filter
}

func (v ViewState) ExportFormat() export.Format {
	return v.format
}

func (v ViewState) Title() string {
	return MonthTitle(v.month)
}

func (v ViewState) Navigate(dir Direction) ViewState {
	v.month = Navigate(v.month, dir)
	return v
}

// GoTo displays the month holding t.
func (v ViewState) GoTo(t time.Time) ViewState {
	v.month = StartOfMonth(t)
	return v
}

// Today displays today's month with today selected.
func (v ViewState) Today(today time.Time) ViewState {
	return v.GoTo(today).Select(model.NewDayKey(today))
}

// Select marks a day as selected. Selecting a day outside the displayed
// month does not change the displayed month.
func (v ViewState) Select(day model.DayKey) ViewState {
	v.selected = day
	return v
}

func (v ViewState) ClearSelection() ViewState {
	v.selected = ""
	return v
}

func (v ViewState) WithFilter(keyword string) ViewState {
	v.filter = keyword
	return v
}

func (v ViewState) WithExportFormat(f export.Format) ViewState {
	v.format = f
	return v
}

// DaySource is what the grid needs from the event store.
type DaySource interface {
	Filter(day model.DayKey, keyword string) []model.Event
}

type Cell struct {
	Date       time.Time
	Key        model.DayKey
	InMonth    bool
	IsToday    bool
	IsSelected bool
	Events     []model.Event
}

// Cells projects the visible days with their filtered events.
func (v ViewState) Cells(src DaySource, today time.Time) []Cell {
	days := GenerateVisibleDays(v.month)
	cells := make([]Cell, 0, len(days))
	todayKey := model.NewDayKey(today)
	for _, d := range days {
		key := model.NewDayKey(d)
		cells = append(cells, Cell{
			Date:       d,
			Key:        key,
			InMonth:    SameMonth(d, v.month),
			IsToday:    key == todayKey,
			IsSelected: key == v.selected,
			Events:     src.Filter(key, v.filter),
		})
	}
	return cells
}
