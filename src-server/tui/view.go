package tui

import (
	"fmt"
	"strings"

	"monthcal/src-server/grid"
	"monthcal/src-server/model"

	"github.com/charmbracelet/lipgloss"
)

const cellWidth = 9

type styles struct {
	Title    lipgloss.Style
	Weekday  lipgloss.Style
	Day      lipgloss.Style
	OffMonth lipgloss.Style
	Today    lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Help     lipgloss.Style
	Status   lipgloss.Style
	Box      lipgloss.Style
	Colors   map[model.Color]lipgloss.Style
}

var style = styles{
	Title: lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Bold(true),
	Weekday: lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Width(cellWidth),
	Day: lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Width(cellWidth),
	OffMonth: lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Width(cellWidth),
	Today: lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Bold(true).
		Width(cellWidth),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color("235")).
		Background(lipgloss.Color("220")).
		Width(cellWidth),
	Cursor: lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Background(lipgloss.Color("235")).
		Padding(0, 1),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1),
	Colors: map[model.Color]lipgloss.Style{
		model.ColorWork:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		model.ColorPersonal: lipgloss.NewStyle().Foreground(lipgloss.Color("170")),
		model.ColorOther:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	},
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(style.Title.Render("‹ " + m.view.Title() + " ›"))
	if f := m.view.Filter(); f != "" {
		b.WriteString(style.Help.Render("  filter: " + f))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderGrid())
	b.WriteString("\n")
	b.WriteString(m.renderDay())

	switch m.mode {
	case modeAdd:
		b.WriteString("\n")
		b.WriteString(m.renderForm())
	case modeFilter:
		b.WriteString("\nFilter: " + m.filter.View())
	}

	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString(style.Status.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(style.Help.Render(helpGrid + " • format: " + string(m.view.ExportFormat())))
	return b.String()
}

func (m Model) renderGrid() string {
	var b strings.Builder
	for _, label := range grid.WeekdayLabels {
		b.WriteString(style.Weekday.Render(label))
	}
	b.WriteString("\n")

	for i, cell := range m.view.Cells(m.store, m.today) {
		label := fmt.Sprintf("%2d", cell.Date.Day())
		if n := len(cell.Events); n > 0 {
			label += fmt.Sprintf(" •%d", n)
		}
		switch {
		case cell.IsSelected:
			b.WriteString(style.Selected.Render(label))
		case cell.IsToday:
			b.WriteString(style.Today.Render(label))
		case !cell.InMonth:
			b.WriteString(style.OffMonth.Render(label))
		default:
			b.WriteString(style.Day.Render(label))
		}
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderDay() string {
	var b strings.Builder
	day := m.selectedDay()
	b.WriteString(style.Title.Render(day.Time().Format("Monday, January 2")))
	b.WriteString("\n")

	events := m.dayEvents()
	if len(events) == 0 {
		b.WriteString(style.Help.Render("  no events"))
		b.WriteString("\n")
	}
	for i, e := range events {
		prefix := "  "
		if i == m.listCursor {
			prefix = style.Cursor.Render("> ")
		}
		line := fmt.Sprintf("%s-%s  %s", e.StartTime, e.EndTime, e.Name)
		if e.Description != "" {
			line += style.Help.Render("  " + e.Description)
		}
		if m.moving != nil && e.ID == m.moving.id {
			line += style.Help.Render("  (moving)")
		}
		b.WriteString(prefix + style.Colors[e.Color.OrDefault()].Render("■ ") + line + "\n")
	}
	if m.mode == modeMove && m.listCursor == len(events) {
		b.WriteString(style.Cursor.Render("> ") + style.Help.Render("drop at the end") + "\n")
	}
	return b.String()
}

func (m Model) renderForm() string {
	labels := []string{"Name", "Start", "End", "Description", "Color"}
	var b strings.Builder
	for i, input := range m.inputs {
		prefix := "  "
		if i == m.focus {
			prefix = style.Cursor.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%-12s %s", prefix, labels[i], input.View()))
		if i < len(m.inputs)-1 {
			b.WriteString("\n")
		}
	}
	return style.Box.Render(b.String())
}
