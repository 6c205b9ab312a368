package model

import (
	"strings"
)

type Color string

const (
	ColorWork     Color = "work"
	ColorPersonal Color = "personal"
	ColorOther    Color = "other"
)

// All colors in the order they are offered to the user.
var Colors = []Color{ColorWork, ColorPersonal, ColorOther}

func (c Color) Valid() bool {
	switch c {
	case ColorWork, ColorPersonal, ColorOther:
		return true
	}
	return false
}

// Returns "other" for an empty or unknown color.
func (c Color) OrDefault() Color {
	if c.Valid() {
		return c
	}
	return ColorOther
}

// Field names, shared by validation errors, the CSV header and the form.
const (
	FieldName        = "name"
	FieldStartTime   = "startTime"
	FieldEndTime     = "endTime"
	FieldDescription = "description"
	FieldColor       = "color"
	FieldID          = "id"
	FieldDate        = "date"
)

// Event is a time-boxed entry inside one day bucket. Times are "HH:MM" in
// 24-hour form so they compare correctly as strings.
//
// Field order matters: it is the key order of the persisted JSON.
type Event struct {
	Name        string `json:"name"`                  // required
	StartTime   string `json:"startTime"`             // required
	EndTime     string `json:"endTime"`               // required
	Description string `json:"description,omitempty"` // optional
	Color       Color  `json:"color"`
	ID          string `json:"id"` // required
}

// Draft is an event that has not been given an identifier yet.
type Draft struct {
	Name        string
	StartTime   string
	EndTime     string
	Description string
	Color       Color
}

// Check re-validates the fields a Draft must carry before it becomes an
// Event. Only simple string comparisons are done here; clock parsing is the
// form's job.
func (d Draft) Check() error {
	fields := make(map[string]string)
	if strings.TrimSpace(d.Name) == "" {
		fields[FieldName] = "name is required"
	}
	if d.StartTime == "" {
		fields[FieldStartTime] = "start time is required"
	}
	if d.EndTime == "" {
		fields[FieldEndTime] = "end time is required"
	}
	if d.StartTime != "" && d.EndTime != "" && d.StartTime >= d.EndTime {
		fields[FieldEndTime] = "end time must be after start time"
	}
	if d.Color != "" && !d.Color.Valid() {
		fields[FieldColor] = "unknown color"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (e Event) Draft() Draft {
	return Draft{
		Name:        e.Name,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Description: e.Description,
		Color:       e.Color,
	}
}

// Two half-open intervals [s1,e1) and [s2,e2) conflict iff s1 < e2 && s2 < e1.
// Touching endpoints do not conflict.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && s2 < e1
}

func (e Event) Overlaps(startTime, endTime string) bool {
	return Overlaps(e.StartTime, e.EndTime, startTime, endTime)
}

// FindConflict returns the first event of the bucket overlapping
// [startTime, endTime), ignoring the event with skipID.
func FindConflict(bucket []Event, startTime, endTime, skipID string) (Event, bool) {
	for _, e := range bucket {
		if skipID != "" && e.ID == skipID {
			continue
		}
		if e.Overlaps(startTime, endTime) {
			return e, true
		}
	}
	return Event{}, false
}
