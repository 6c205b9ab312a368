package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"monthcal/src-server/export"
	"monthcal/src-server/form"
	"monthcal/src-server/grid"
	"monthcal/src-server/model"
	"monthcal/src-server/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeGrid mode = iota
	modeAdd
	modeFilter
	modeMove
)

// the add form's inputs, in tab order
const (
	inputName = iota
	inputStart
	inputEnd
	inputDescription
	inputColor
	inputCount
)

const helpGrid = "arrows/hjkl day • [ ] month • t today • tab event • a add • d delete • m move • / filter • f format • e export • q quit"

// picked up event waiting to be dropped
type moving struct {
	day   model.DayKey
	id    string
	name  string
	index int
}

type Model struct {
	ctx       context.Context
	store     *store.Store
	exportDir string
	today     time.Time

	view       grid.ViewState
	listCursor int
	mode       mode

	inputs []textinput.Model
	focus  int
	filter textinput.Model
	moving *moving

	status string
	width  int
}

func New(ctx context.Context, st *store.Store, exportDir string, today time.Time) Model {
	inputs := make([]textinput.Model, inputCount)
	for i, placeholder := range []string{"Event name", "HH:MM", "HH:MM", "Description", "work, personal or other"} {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 256
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[inputStart].CharLimit = 5
	inputs[inputEnd].CharLimit = 5

	filter := textinput.New()
	filter.Placeholder = "keyword"
	filter.CharLimit = 64
	filter.Width = 30

	m := Model{
		ctx:       ctx,
		store:     st,
		exportDir: exportDir,
		today:     today,
		view:      grid.NewViewState(today).Today(today),
		inputs:    inputs,
		filter:    filter,
		status:    "Press 'a' to add an event, 'q' to quit",
	}
	m.setForm(form.New())
	return m
}

// muteLogs sends the default logger to w until restore is called, so log
// lines don't draw over the alt screen.
func muteLogs(w io.Writer) (restore func()) {
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(w, nil)))
	return func() {
		slog.SetDefault(previous)
	}
}

// Run blocks until the user quits.
func Run(ctx context.Context, st *store.Store, exportDir string) error {
	restore := muteLogs(io.Discard)
	defer restore()

	program := tea.NewProgram(New(ctx, st, exportDir, time.Now()), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg)
		case modeFilter:
			return m.updateFilterMode(msg)
		case modeMove:
			return m.updateMoveMode(msg)
		}
		return m.updateGridMode(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// #region - accessors used by the view and tests

func (m Model) ViewState() grid.ViewState {
	return m.view
}

func (m Model) Status() string {
	return m.status
}

func (m Model) selectedDay() model.DayKey {
	day, _ := m.view.Selected()
	return day
}

// visible events of the selected day
func (m Model) dayEvents() []model.Event {
	return m.store.Filter(m.selectedDay(), m.view.Filter())
}

func (m Model) cursorEvent() (model.Event, bool) {
	events := m.dayEvents()
	if m.listCursor < 0 || m.listCursor >= len(events) {
		return model.Event{}, false
	}
	return events[m.listCursor], true
}

// #endregion

// #region - grid mode

func (m Model) updateGridMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg.String()) {
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "a", "enter":
		m.mode = modeAdd
		m.setForm(form.New())
		m.status = "Adding an event on " + m.selectedDay().String() + ": tab to move between fields, enter to save, esc to cancel"
	case "d", "x":
		event, ok := m.cursorEvent()
		if !ok {
			m.status = "No event selected"
			return m, nil
		}
		if err := m.store.DeleteEvent(m.ctx, m.selectedDay(), event.ID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			return m, nil
		}
		m.listCursor = clampCursor(m.listCursor, len(m.dayEvents()))
		m.status = "Deleted " + event.Name
	case "m":
		event, ok := m.cursorEvent()
		if !ok {
			m.status = "No event selected"
			return m, nil
		}
		m.moving = &moving{
			day:   m.selectedDay(),
			id:    event.ID,
			name:  event.Name,
			index: m.store.IndexOf(m.selectedDay(), event.ID),
		}
		m.mode = modeMove
		m.status = "Moving " + event.Name + ": pick a day and position, enter to drop, esc to cancel"
	case "/":
		m.mode = modeFilter
		m.filter.SetValue(m.view.Filter())
		m.filter.CursorEnd()
		m.filter.Focus()
		m.status = "Filter: enter to apply, esc to clear"
	case "f":
		m.view = m.view.WithExportFormat(m.view.ExportFormat().Next())
		m.status = "Export format: " + string(m.view.ExportFormat())
	case "e":
		file, err := export.Export(m.store.Snapshot(), m.view.Month(), m.view.ExportFormat())
		if err != nil {
			m.status = fmt.Sprintf("export failed: %v", err)
			return m, nil
		}
		path, err := export.WriteFile(m.exportDir, file)
		if err != nil {
			m.status = fmt.Sprintf("export failed: %v", err)
			return m, nil
		}
		m.status = "Exported to " + path
	}
	return m, nil
}

// moveCursor handles day, month and list navigation shared by grid and move
// modes. It reports whether key was one of them.
func (m *Model) moveCursor(key string) bool {
	day := m.selectedDay().Time()
	switch key {
	case "left", "h":
		m.selectDay(day.AddDate(0, 0, -1))
	case "right", "l":
		m.selectDay(day.AddDate(0, 0, 1))
	case "up", "k":
		m.selectDay(day.AddDate(0, 0, -7))
	case "down", "j":
		m.selectDay(day.AddDate(0, 0, 7))
	case "[":
		m.view = m.view.Navigate(grid.Prev)
		m.selectDay(m.view.Month())
	case "]":
		m.view = m.view.Navigate(grid.Next)
		m.selectDay(m.view.Month())
	case "t":
		m.view = m.view.Today(m.today)
		m.listCursor = 0
	case "tab":
		m.listCursor = m.nextListCursor(1)
	case "shift+tab":
		m.listCursor = m.nextListCursor(-1)
	default:
		return false
	}
	return true
}

func (m *Model) selectDay(t time.Time) {
	if !grid.SameMonth(t, m.view.Month()) {
		m.view = m.view.GoTo(t)
	}
	m.view = m.view.Select(model.NewDayKey(t))
	m.listCursor = 0
}

// in move mode the cursor may sit one past the last event to drop at the end
func (m Model) nextListCursor(step int) int {
	n := len(m.dayEvents())
	if m.mode == modeMove {
		n++
	}
	return wrapIndex(m.listCursor+step, n)
}

// #endregion

// #region - add mode

func (m *Model) setForm(f form.EventForm) {
	for i, v := range []string{f.Name, f.StartTime, f.EndTime, f.Description, f.Color} {
		m.inputs[i].SetValue(v)
	}
	m.focusInput(0)
}

func (m Model) currentForm() form.EventForm {
	return form.EventForm{
		Name:        m.inputs[inputName].Value(),
		StartTime:   m.inputs[inputStart].Value(),
		EndTime:     m.inputs[inputEnd].Value(),
		Description: m.inputs[inputDescription].Value(),
		Color:       m.inputs[inputColor].Value(),
	}
}

func (m *Model) focusInput(i int) {
	m.focus = wrapIndex(i, inputCount)
	for j := range m.inputs {
		if j == m.focus {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeGrid
		m.setForm(form.New())
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		m.focusInput(m.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.focusInput(m.focus - 1)
		return m, nil
	case "enter":
		result := m.currentForm().Submit(m.ctx, m.store, m.selectedDay())
		m.status = result.Message()
		m.setForm(result.Form)
		if result.OK() {
			m.mode = modeGrid
			m.listCursor = clampCursor(m.store.IndexOf(m.selectedDay(), result.Event.ID), len(m.dayEvents()))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// #endregion

// #region - filter mode

func (m Model) updateFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.SetValue("")
		fallthrough
	case "enter":
		m.view = m.view.WithFilter(strings.TrimSpace(m.filter.Value()))
		m.filter.Blur()
		m.mode = modeGrid
		m.listCursor = 0
		if m.view.Filter() == "" {
			m.status = "Filter cleared"
		} else {
			m.status = "Filtering by " + m.view.Filter()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

// #endregion

// #region - move mode

func (m Model) updateMoveMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg.String()) {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		source := model.Slot{Day: m.moving.day, Index: m.moving.index}
		if err := m.store.MoveEvent(m.ctx, source, nil); err != nil {
			m.status = fmt.Sprintf("move failed: %v", err)
		} else {
			m.status = "Move cancelled"
		}
		m.moving = nil
		m.mode = modeGrid
	case "enter", "m":
		source := model.Slot{Day: m.moving.day, Index: m.store.IndexOf(m.moving.day, m.moving.id)}
		dest := &model.Slot{Day: m.selectedDay(), Index: m.dropIndex()}
		err := m.store.MoveEvent(m.ctx, source, dest)
		var conflict *model.ConflictError
		switch {
		case errors.As(err, &conflict):
			m.status = "Can't drop here: overlaps " + conflict.Existing.Name
			return m, nil
		case err != nil:
			m.status = fmt.Sprintf("move failed: %v", err)
		default:
			m.status = "Moved " + m.moving.name + " to " + dest.Day.String()
			m.listCursor = clampCursor(m.store.IndexOf(dest.Day, m.moving.id), len(m.dayEvents()))
		}
		m.moving = nil
		m.mode = modeGrid
	}
	return m, nil
}

// dropIndex maps the list cursor, which points into the filtered list, to a
// position in the day's full bucket. The moved event lands before the event
// under the cursor; the store removes the source first, so a same-day move
// downward shifts the target up by one.
func (m Model) dropIndex() int {
	event, ok := m.cursorEvent()
	if !ok {
		return len(m.store.Day(m.selectedDay()))
	}
	idx := m.store.IndexOf(m.selectedDay(), event.ID)
	if m.moving.day == m.selectedDay() {
		if source := m.store.IndexOf(m.moving.day, m.moving.id); source < idx {
			idx--
		}
	}
	return idx
}

// #endregion

func clampCursor(cur, n int) int {
	if n <= 0 || cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
