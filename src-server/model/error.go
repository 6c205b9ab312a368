package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrConflict        = errors.New("event conflicts with an existing event")
	ErrEventNotFound   = errors.New("event not found")
	ErrIndexOutOfRange = errors.New("event index out of range")
	ErrValidation      = errors.New("invalid event")
)

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConflictError is returned when Candidate overlaps Existing on Day.
type ConflictError struct {
	Day       DayKey
	Existing  Event
	Candidate Draft
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"%s: %s-%s overlaps %q (%s-%s) on %s",
		ErrConflict,
		e.Candidate.StartTime, e.Candidate.EndTime,
		e.Existing.Name, e.Existing.StartTime, e.Existing.EndTime,
		e.Day,
	)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
