package model

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

const DayKeyLayout = "2006-01-02"

// DayKey is the canonical "yyyy-MM-dd" key of a day bucket.
type DayKey string

func NewDayKey(t time.Time) DayKey {
	return DayKey(t.Format(DayKeyLayout))
}

func ParseDayKey(s string) (DayKey, error) {
	t, err := time.ParseInLocation(DayKeyLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return "", fmt.Errorf("ParseDayKey: %w", err)
	}
	return NewDayKey(t), nil
}

// Time returns local midnight of the day. A malformed key yields the zero time.
func (k DayKey) Time() time.Time {
	t, err := time.ParseInLocation(DayKeyLayout, string(k), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (k DayKey) String() string {
	return string(k)
}

// Slot addresses one position inside a day bucket.
type Slot struct {
	Day   DayKey `json:"date"`
	Index int    `json:"index"`
}

// CalendarEvents maps each day to its ordered bucket. It is the only durable
// state of the calendar.
type CalendarEvents map[DayKey][]Event

// Clone copies the map and every bucket so the result can be modified without
// touching the receiver.
func (c CalendarEvents) Clone() CalendarEvents {
	out := make(CalendarEvents, len(c))
	for k, v := range c {
		out[k] = slices.Clone(v)
	}
	return out
}

// SortedKeys returns the day keys in ascending order. Output code iterates
// through this instead of the map.
func (c CalendarEvents) SortedKeys() []DayKey {
	keys := make([]DayKey, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func (c CalendarEvents) Count() int {
	n := 0
	for _, v := range c {
		n += len(v)
	}
	return n
}

// InMonth keeps only the buckets whose key falls in year/month.
func (c CalendarEvents) InMonth(year int, month time.Month) CalendarEvents {
	out := make(CalendarEvents)
	for k, v := range c {
		t := k.Time()
		if t.IsZero() {
			continue
		}
		if t.Year() == year && t.Month() == month {
			out[k] = slices.Clone(v)
		}
	}
	return out
}

// MatchesKeyword reports whether the name or description contains keyword,
// case-insensitively. An empty keyword matches everything.
func MatchesKeyword(e Event, keyword string) bool {
	if keyword == "" {
		return true
	}
	fold := cases.Fold()
	needle := fold.String(keyword)
	if strings.Contains(fold.String(e.Name), needle) {
		return true
	}
	return e.Description != "" && strings.Contains(fold.String(e.Description), needle)
}
