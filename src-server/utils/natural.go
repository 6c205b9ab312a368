package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"monthcal/src-server/model"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

const (
	MonthLayout = "2006-01"

	// accept unpadded input like 2025-1-5
	looseDayLayout   = "2006-1-2"
	looseMonthLayout = "2006-1"
)

var (
	dayShape   = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)
	monthShape = regexp.MustCompile(`^\d{4}-\d{1,2}$`)
)

func NewWhenParser() *when.Parser {
	parser := when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)
	return parser
}

// ParseDay accepts "yyyy-MM-dd", an empty string (today) or natural text
// like "tomorrow" or "next friday", resolved against now.
func ParseDay(parser *when.Parser, text string, now time.Time) (model.DayKey, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.NewDayKey(now), nil
	}
	if dayShape.MatchString(text) {
		t, err := time.ParseInLocation(looseDayLayout, text, time.Local)
		if err != nil {
			return "", fmt.Errorf("ParseDay: %w", err)
		}
		return model.NewDayKey(t), nil
	}

	result, err := parser.Parse(text, now)
	if err != nil {
		return "", fmt.Errorf("ParseDay: %w", err)
	}
	// a match on part of the input would silently drop the rest
	if result == nil || !strings.EqualFold(strings.TrimSpace(result.Text), text) {
		return "", fmt.Errorf("ParseDay: can't understand %q", text)
	}
	return model.NewDayKey(result.Time), nil
}

// ParseMonth accepts "yyyy-MM", anything ParseDay accepts, and returns the
// 1st of the month.
func ParseMonth(parser *when.Parser, text string, now time.Time) (time.Time, error) {
	text = strings.TrimSpace(text)
	if monthShape.MatchString(text) {
		t, err := time.ParseInLocation(looseMonthLayout, text, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("ParseMonth: %w", err)
		}
		return t, nil
	}
	day, err := ParseDay(parser, text, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseMonth: %w", err)
	}
	t := day.Time()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local), nil
}
