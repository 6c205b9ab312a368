package export_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"monthcal/src-server/export"
	"monthcal/src-server/model"
)

func sampleEvents() model.CalendarEvents {
	return model.CalendarEvents{
		"2025-01-15": {
			{ID: "a", Name: "Standup", StartTime: "09:00", EndTime: "09:15", Color: model.ColorWork},
			{ID: "b", Name: "Lunch", StartTime: "12:00", EndTime: "13:00", Description: `Say "hi", bring cake`, Color: model.ColorPersonal},
		},
		"2025-01-02": {
			{ID: "c", Name: "Gym", StartTime: "18:00", EndTime: "19:00", Color: model.ColorOther},
		},
		"2025-02-01": {
			{ID: "d", Name: "Next month", StartTime: "08:00", EndTime: "09:00", Color: model.ColorOther},
		},
		"2024-01-20": {
			{ID: "e", Name: "Last year", StartTime: "08:00", EndTime: "09:00", Color: model.ColorOther},
		},
	}
}

var january = time.Date(2025, time.January, 17, 0, 0, 0, 0, time.Local)

func TestMonthEvents(t *testing.T) {
	got := export.MonthEvents(sampleEvents(), january)
	if len(got) != 2 {
		t.Fatalf("expected 2 January days, got %v", got.SortedKeys())
	}
	if _, ok := got["2024-01-20"]; ok {
		t.Error("January of another year must be excluded")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	month := export.MonthEvents(sampleEvents(), january)
	data, err := export.ToJSON(month)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  \"2025-01-02\": [") {
		t.Errorf("expected two-space indentation, got:\n%s", data)
	}
	parsed, err := export.ParseJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(parsed, month) {
		t.Errorf("round trip mismatch:\n got %v\nwant %v", parsed, month)
	}
}

func TestJSONEmpty(t *testing.T) {
	data, err := export.ToJSON(nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("ToJSON(nil) = %s", data)
	}
}

func TestFlatten(t *testing.T) {
	rows := export.Flatten(export.MonthEvents(sampleEvents(), january))
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	if want := []string{"c", "a", "b"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("Flatten order = %v, want %v", ids, want)
	}
	if rows[0].Date != "2025-01-02" {
		t.Errorf("first row date = %s", rows[0].Date)
	}
}

func TestToCSV(t *testing.T) {
	rows := export.Flatten(export.MonthEvents(sampleEvents(), january))
	out := string(export.ToCSV(rows))
	lines := strings.Split(out, "\n")

	if len(lines) != 1+len(rows) {
		t.Fatalf("expected %d lines, got %d:\n%s", 1+len(rows), len(lines), out)
	}
	if lines[0] != "date,name,startTime,endTime,description,color,id" {
		t.Errorf("header = %s", lines[0])
	}
	if lines[1] != `"2025-01-02","Gym","18:00","19:00","","other","c"` {
		t.Errorf("row without description = %s", lines[1])
	}
	if lines[3] != `"2025-01-15","Lunch","12:00","13:00","Say ""hi"", bring cake","personal","b"` {
		t.Errorf("escaped row = %s", lines[3])
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("output should not end with a newline")
	}
}

func TestToCSVEmpty(t *testing.T) {
	out := string(export.ToCSV(nil))
	if out != "date,name,startTime,endTime,description,color,id" {
		t.Errorf("empty CSV = %q", out)
	}
}

func TestToICS(t *testing.T) {
	month := export.MonthEvents(sampleEvents(), january)
	data, err := export.ToICS(month, "Events January 2025", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)

	for _, field := range []string{
		"BEGIN:VCALENDAR",
		"PRODID:" + export.ICSProductID,
		"UID:a",
		"DTSTART:20250115T090000",
		"DTEND:20250115T091500",
		"SUMMARY:Standup",
		"CATEGORIES:work",
		"END:VCALENDAR",
	} {
		if !strings.Contains(body, field) {
			t.Errorf("ICS output missing %s", field)
		}
	}
	if n := strings.Count(body, "BEGIN:VEVENT"); n != 3 {
		t.Errorf("expected 3 events, got %d", n)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		format export.Format
		want   string
	}{
		{export.FormatJSON, "events_January_2025.json"},
		{export.FormatCSV, "events_January_2025.csv"},
		{export.FormatICS, "events_January_2025.ics"},
	}
	for _, tt := range tests {
		if got := export.FileName(january, tt.format); got != tt.want {
			t.Errorf("FileName(%s) = %s, want %s", tt.format, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := export.ParseFormat(" CSV "); err != nil || f != export.FormatCSV {
		t.Errorf("ParseFormat(CSV) = %v, %v", f, err)
	}
	if f, err := export.ParseFormat(""); err != nil || f != export.FormatJSON {
		t.Errorf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if _, err := export.ParseFormat("xml"); err == nil {
		t.Error("expected an error for xml")
	}
	if export.FormatICS.Next() != export.FormatJSON {
		t.Error("format cycle should wrap around")
	}
}

func TestExportAndWriteFile(t *testing.T) {
	file, err := export.Export(sampleEvents(), january, export.FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	if file.Name != "events_January_2025.csv" || !strings.HasPrefix(file.ContentType, "text/csv") {
		t.Errorf("unexpected file %+v", file)
	}

	dir := filepath.Join(t.TempDir(), "exports")
	path, err := export.WriteFile(dir, file)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(file.Data) {
		t.Error("written file differs from the export")
	}
	if _, err := os.Stat(path + export.TmpSuffix); !os.IsNotExist(err) {
		t.Error("temp file should be gone")
	}
}
