package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"monthcal/src-server/model"

	ical "github.com/arran4/golang-ical"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatICS  Format = "ics"
)

// Formats in the order the format selector cycles through them.
var Formats = []Format{FormatJSON, FormatCSV, FormatICS}

const (
	ICSProductID    = "-//monthcal//Month Calendar//EN"
	FilePermissions = 0644
	TmpSuffix       = ".tmp"
)

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatJSON, FormatCSV, FormatICS:
		return f, nil
	case "":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("ParseFormat: unknown export format %q", s)
}

// Next returns the format after f in Formats, wrapping around.
func (f Format) Next() Format {
	for i, candidate := range Formats {
		if candidate == f {
			return Formats[(i+1)%len(Formats)]
		}
	}
	return FormatJSON
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatICS:
		return "text/calendar; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// FileName follows events_<MonthName>_<Year>.<ext>.
func FileName(anchor time.Time, f Format) string {
	return fmt.Sprintf("events_%s_%d.%s", anchor.Month(), anchor.Year(), f)
}

// MonthEvents restricts events to the month of anchor.
func MonthEvents(events model.CalendarEvents, anchor time.Time) model.CalendarEvents {
	return events.InMonth(anchor.Year(), anchor.Month())
}

// ToJSON pretty-prints the mapping with two-space indentation. Parsing the
// output gives back an identical mapping.
func ToJSON(events model.CalendarEvents) ([]byte, error) {
	if events == nil {
		events = make(model.CalendarEvents)
	}
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("ToJSON: %w", err)
	}
	return data, nil
}

// ParseJSON is the inverse of ToJSON.
func ParseJSON(data []byte) (model.CalendarEvents, error) {
	events := make(model.CalendarEvents)
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("ParseJSON: %w", err)
	}
	return events, nil
}

// Row is one event flattened with its day key.
type Row struct {
	Date model.DayKey
	model.Event
}

// The flattening order: the day key first, then the event's own fields.
var CSVHeader = []string{
	model.FieldDate,
	model.FieldName,
	model.FieldStartTime,
	model.FieldEndTime,
	model.FieldDescription,
	model.FieldColor,
	model.FieldID,
}

func (r Row) values() []string {
	return []string{
		string(r.Date),
		r.Name,
		r.StartTime,
		r.EndTime,
		r.Description,
		string(r.Color),
		r.ID,
	}
}

// Flatten emits one row per event, days ascending, bucket order within a day.
func Flatten(events model.CalendarEvents) []Row {
	rows := make([]Row, 0, events.Count())
	for _, day := range events.SortedKeys() {
		for _, e := range events[day] {
			rows = append(rows, Row{Date: day, Event: e})
		}
	}
	return rows
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ToCSV writes a header line plus one line per row. Every value is quoted,
// lines are joined by "\n" without a trailing newline. The header is the
// same for every row, so rows without a description still line up.
func ToCSV(rows []Row) []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(CSVHeader, ","))
	for _, r := range rows {
		buf.WriteByte('\n')
		values := r.values()
		for i, v := range values {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(quoteCSV(v))
		}
	}
	return buf.Bytes()
}

// ToICS writes one VEVENT per event. Times are floating local times since
// the calendar carries no timezone.
func ToICS(events model.CalendarEvents, calName string, stamp time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ICSProductID)
	if calName != "" {
		cal.SetXWRCalName(calName)
	}

	for _, row := range Flatten(events) {
		start, err := floatingTime(row.Date, row.StartTime)
		if err != nil {
			return nil, fmt.Errorf("ToICS: event %s: %w", row.ID, err)
		}
		end, err := floatingTime(row.Date, row.EndTime)
		if err != nil {
			return nil, fmt.Errorf("ToICS: event %s: %w", row.ID, err)
		}

		event := cal.AddEvent(row.ID)
		event.SetDtStampTime(stamp)
		event.SetProperty(ical.ComponentPropertyDtStart, start)
		event.SetProperty(ical.ComponentPropertyDtEnd, end)
		event.SetSummary(row.Name)
		if row.Description != "" {
			event.SetDescription(row.Description)
		}
		event.AddProperty(ical.ComponentPropertyCategories, string(row.Color.OrDefault()))
	}

	return []byte(cal.Serialize()), nil
}

func floatingTime(day model.DayKey, clock string) (string, error) {
	t, err := time.Parse(model.DayKeyLayout+" 15:04", string(day)+" "+clock)
	if err != nil {
		return "", err
	}
	return t.Format("20060102T150405"), nil
}

// File is an export ready to be downloaded or written to disk.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Export serializes the anchor's month of events in format f.
func Export(events model.CalendarEvents, anchor time.Time, f Format) (File, error) {
	month := MonthEvents(events, anchor)
	file := File{
		Name:        FileName(anchor, f),
		ContentType: f.ContentType(),
	}

	var err error
	switch f {
	case FormatJSON:
		file.Data, err = ToJSON(month)
	case FormatCSV:
		file.Data = ToCSV(Flatten(month))
	case FormatICS:
		file.Data, err = ToICS(month, "Events "+anchor.Format("January 2006"), time.Now())
	default:
		err = fmt.Errorf("unknown export format %q", f)
	}
	if err != nil {
		return File{}, fmt.Errorf("Export: %w", err)
	}

	slog.Debug("export generated", "file", file.Name, "days", len(month), "events", month.Count())
	return file, nil
}

// WriteFile writes the export into dir through a temp file and returns its
// final path.
func WriteFile(dir string, file File) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("WriteFile: %w", err)
	}
	path := filepath.Join(dir, file.Name)
	tmpFile := path + TmpSuffix
	if err := os.WriteFile(tmpFile, file.Data, FilePermissions); err != nil {
		return "", fmt.Errorf("WriteFile: %w", err)
	}
	if err := os.Rename(tmpFile, path); err != nil {
		return "", fmt.Errorf("WriteFile: %w", err)
	}
	return path, nil
}
