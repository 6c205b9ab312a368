package tui_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"monthcal/src-server/model"
	"monthcal/src-server/store"
	"monthcal/src-server/tui"

	tea "github.com/charmbracelet/bubbletea"
)

type memStorage struct {
	saved model.CalendarEvents
}

func (m *memStorage) Load(ctx context.Context) (model.CalendarEvents, error) {
	return m.saved.Clone(), nil
}

func (m *memStorage) Save(ctx context.Context, events model.CalendarEvents) error {
	m.saved = events.Clone()
	return nil
}

var today = time.Date(2025, time.January, 15, 9, 0, 0, 0, time.Local)

func newModel(t *testing.T, opts ...store.Option) (tui.Model, *store.Store) {
	t.Helper()
	st, err := store.New(context.Background(), &memStorage{}, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return tui.New(context.Background(), st, t.TempDir(), today), st
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tui.Model, msgs ...tea.KeyMsg) tui.Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(tui.Model)
	}
	return m
}

func typeText(m tui.Model, s string) tui.Model {
	for _, r := range s {
		m = press(m, runes(string(r)))
	}
	return m
}

var (
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	right = tea.KeyMsg{Type: tea.KeyRight}
)

func addEvent(m tui.Model, name, start, end string) tui.Model {
	m = press(m, runes("a"))
	m = typeText(m, name)
	m = press(m, tab)
	m = typeText(m, start)
	m = press(m, tab)
	m = typeText(m, end)
	return press(m, enter)
}

func selected(m tui.Model) model.DayKey {
	day, _ := m.ViewState().Selected()
	return day
}

func TestNavigation(t *testing.T) {
	m, _ := newModel(t)
	if selected(m) != "2025-01-15" {
		t.Fatalf("initial selection = %s", selected(m))
	}

	m = press(m, right, runes("j"))
	if selected(m) != "2025-01-23" {
		t.Errorf("after right+down = %s", selected(m))
	}

	m = press(m, runes("]"))
	if m.ViewState().Title() != "February 2025" || selected(m) != "2025-02-01" {
		t.Errorf("after ] = %s / %s", m.ViewState().Title(), selected(m))
	}

	// walking off the grid changes the displayed month
	m = press(m, runes("h"))
	if m.ViewState().Title() != "January 2025" || selected(m) != "2025-01-31" {
		t.Errorf("after h = %s / %s", m.ViewState().Title(), selected(m))
	}

	m = press(m, runes("t"))
	if selected(m) != "2025-01-15" {
		t.Errorf("after t = %s", selected(m))
	}
}

func TestAddEvent(t *testing.T) {
	m, st := newModel(t)

	m = addEvent(m, "Standup", "9:00", "9:15")
	events := st.Day("2025-01-15")
	if len(events) != 1 || events[0].Name != "Standup" || events[0].StartTime != "09:00" {
		t.Fatalf("store = %+v", events)
	}
	if !strings.HasPrefix(m.Status(), "Added Standup") {
		t.Errorf("status = %q", m.Status())
	}

	// overlapping: nothing is added and the form stays open
	m = addEvent(m, "Review", "09:10", "10:00")
	if len(st.Day("2025-01-15")) != 1 {
		t.Error("conflicting event was added")
	}
	if !strings.Contains(m.Status(), "conflicts with Standup") {
		t.Errorf("status = %q", m.Status())
	}
	m = press(m, esc)
	if m.Status() != "Cancelled" {
		t.Errorf("status = %q", m.Status())
	}
}

func TestAddEventInvalid(t *testing.T) {
	m, st := newModel(t)
	m = press(m, runes("a"), tab)
	m = typeText(m, "10:00")
	m = press(m, tab)
	m = typeText(m, "09:00")
	m = press(m, enter)

	if st.Count() != 0 {
		t.Error("invalid form reached the store")
	}
	if m.Status() != "Please fill in the event name" {
		t.Errorf("status = %q", m.Status())
	}
}

func TestDelete(t *testing.T) {
	m, st := newModel(t)
	m = addEvent(m, "A", "09:00", "10:00")
	m = addEvent(m, "B", "10:00", "11:00")

	// the cursor sits on B after adding it, tab wraps to A
	m = press(m, tab, runes("d"))
	events := st.Day("2025-01-15")
	if len(events) != 1 || events[0].Name != "B" {
		t.Errorf("after delete = %+v", events)
	}
}

func TestFilter(t *testing.T) {
	m, _ := newModel(t)
	m = addEvent(m, "Standup", "09:00", "09:15")
	m = addEvent(m, "Lunch", "12:00", "13:00")

	m = press(m, runes("/"))
	m = typeText(m, "lunch")
	m = press(m, enter)
	if m.ViewState().Filter() != "lunch" {
		t.Fatalf("filter = %q", m.ViewState().Filter())
	}
	if !strings.Contains(m.View(), "Lunch") || strings.Contains(m.View(), "Standup") {
		t.Error("filtered view should only list Lunch")
	}

	m = press(m, runes("/"), esc)
	if m.ViewState().Filter() != "" {
		t.Errorf("filter should be cleared, got %q", m.ViewState().Filter())
	}
}

func TestMove(t *testing.T) {
	m, st := newModel(t)
	m = addEvent(m, "A", "09:00", "10:00")

	// pick up, walk to tomorrow, drop
	m = press(m, runes("m"), right, enter)
	if len(st.Day("2025-01-15")) != 0 || len(st.Day("2025-01-16")) != 1 {
		t.Errorf("move failed: %v", st.Snapshot())
	}

	// cancelled move leaves everything in place
	m = press(m, runes("m"), right, esc)
	if len(st.Day("2025-01-16")) != 1 || m.Status() != "Move cancelled" {
		t.Errorf("cancel changed the store: %v (%s)", st.Snapshot(), m.Status())
	}
}

func TestMoveReorder(t *testing.T) {
	m, st := newModel(t)
	m = addEvent(m, "A", "09:00", "10:00")
	m = addEvent(m, "B", "10:00", "11:00")

	// pick up A and drop it past the end of the same day
	m = press(m, tab)
	m = press(m, runes("m"), tab, tab, enter)
	events := st.Day("2025-01-15")
	if len(events) != 2 || events[0].Name != "B" || events[1].Name != "A" {
		t.Errorf("reorder = %+v", events)
	}
}

func TestMoveDropsBeforeCursor(t *testing.T) {
	m, st := newModel(t)
	m = addEvent(m, "A", "09:00", "10:00")
	m = addEvent(m, "B", "10:00", "11:00")
	m = addEvent(m, "C", "11:00", "12:00")

	// pick up A, drop it on C: same day, moving down
	m = press(m, tab)
	m = press(m, runes("m"), tab, tab, enter)
	if got := names(st.Day("2025-01-15")); got != "B,A,C" {
		t.Errorf("same day drop = %s, want B,A,C", got)
	}

	// pick up C, drop it on B: same day, moving up; the cursor wraps through
	// the drop-at-end slot back to the top
	m = press(m, tab)
	m = press(m, runes("m"), tab, tab, enter)
	if got := names(st.Day("2025-01-15")); got != "C,B,A" {
		t.Errorf("same day drop up = %s, want C,B,A", got)
	}

	// cross day drops land before the cursor event too
	m = press(m, right)
	m = addEvent(m, "X", "13:00", "14:00")
	m = addEvent(m, "Y", "14:00", "15:00")
	m = press(m, runes("h"))
	m = press(m, runes("m"), right, tab, enter)
	if got := names(st.Day("2025-01-16")); got != "X,C,Y" {
		t.Errorf("cross day drop = %s, want X,C,Y", got)
	}
}

func names(events []model.Event) string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Name)
	}
	return strings.Join(out, ",")
}

func TestMoveStrictConflict(t *testing.T) {
	m, st := newModel(t, store.WithStrictMove(true))
	m = addEvent(m, "A", "09:00", "10:00")
	m = press(m, right)
	m = addEvent(m, "B", "09:30", "10:30")
	m = press(m, runes("h"))

	m = press(m, runes("m"), right, enter)
	if !strings.Contains(m.Status(), "overlaps B") {
		t.Errorf("status = %q", m.Status())
	}
	if len(st.Day("2025-01-15")) != 1 {
		t.Error("rejected move changed the store")
	}
}

func TestExport(t *testing.T) {
	m, _ := newModel(t)
	m = addEvent(m, "Standup", "09:00", "09:15")

	m = press(m, runes("f"))
	if m.ViewState().ExportFormat() != "csv" {
		t.Fatalf("format = %s", m.ViewState().ExportFormat())
	}
	m = press(m, runes("e"))
	if !strings.HasPrefix(m.Status(), "Exported to ") {
		t.Fatalf("status = %q", m.Status())
	}
	path := strings.TrimPrefix(m.Status(), "Exported to ")
	if filepath.Base(path) != "events_January_2025.csv" {
		t.Errorf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"Standup"`) {
		t.Errorf("csv = %s", data)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)
	if _, cmd := m.Update(runes("q")); cmd == nil {
		t.Error("q should quit")
	}
}
