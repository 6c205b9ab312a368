package grid

import (
	"time"

	"monthcal/src-server/model"
)

// Weeks always start on Sunday.
const WeekStart = time.Sunday

type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// Weekday labels in grid column order.
var WeekdayLabels = func() []string {
	labels := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		labels = append(labels, ((WeekStart + time.Weekday(i)) % 7).String()[:3])
	}
	return labels
}()

func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) - int(WeekStart) + 7) % 7
	return StartOfDay(t).AddDate(0, 0, -offset)
}

func endOfWeek(t time.Time) time.Time {
	return startOfWeek(t).AddDate(0, 0, 6)
}

// GenerateVisibleDays returns every day from the start of the week holding
// the 1st of the anchor's month through the end of the week holding its last
// day. The result is always a whole number of weeks.
func GenerateVisibleDays(anchor time.Time) []time.Time {
	start := startOfWeek(StartOfMonth(anchor))
	end := endOfWeek(EndOfMonth(anchor))

	days := make([]time.Time, 0, 42)
	for d := start; !d.After(end); d = time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, d.Location()) {
		days = append(days, d)
	}
	return days
}

// Navigate moves the anchor one month in dir. The anchor is normalized to the
// 1st first, so the 31st never spills into the wrong month.
func Navigate(anchor time.Time, dir Direction) time.Time {
	return StartOfMonth(anchor).AddDate(0, int(dir), 0)
}

// "January 2025"
func MonthTitle(anchor time.Time) string {
	return anchor.Format("January 2006")
}

func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func SameDay(a, b time.Time) bool {
	return model.NewDayKey(a) == model.NewDayKey(b)
}
