package form

import (
	"context"
	"errors"
	"strings"
	"time"

	"monthcal/src-server/model"
	"monthcal/src-server/utils"
)

const ClockLayout = "15:04"

// Adder is the part of the event store the form submits to.
type Adder interface {
	AddEvent(ctx context.Context, day model.DayKey, draft model.Draft) (model.Event, error)
}

// EventForm holds the raw text the user typed.
type EventForm struct {
	Name        string `json:"name"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// FieldErrors maps a field name to its message.
type FieldErrors map[string]string

// New returns an empty form with the default color.
func New() EventForm {
	return EventForm{Color: string(model.ColorOther)}
}

// normalizeClock turns "9:05" into "09:05" so times compare as strings.
func normalizeClock(s string) (string, bool) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return t.Format(ClockLayout), true
}

// Validate returns nil when the form can be submitted.
func (f EventForm) Validate() FieldErrors {
	errs := make(FieldErrors)

	if utils.CleanupString(f.Name) == "" {
		errs[model.FieldName] = "Please fill in the event name"
	}

	start, startOK := normalizeClock(f.StartTime)
	switch {
	case strings.TrimSpace(f.StartTime) == "":
		errs[model.FieldStartTime] = "Please fill in the start time"
	case !startOK:
		errs[model.FieldStartTime] = "Start time must look like HH:MM"
	}
	end, endOK := normalizeClock(f.EndTime)
	switch {
	case strings.TrimSpace(f.EndTime) == "":
		errs[model.FieldEndTime] = "Please fill in the end time"
	case !endOK:
		errs[model.FieldEndTime] = "End time must look like HH:MM"
	case startOK && start >= end:
		errs[model.FieldEndTime] = "End time must be after start time"
	}

	if c := strings.TrimSpace(f.Color); c != "" && !model.Color(c).Valid() {
		errs[model.FieldColor] = "Color must be one of work, personal, other"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Draft converts a valid form into a store draft.
func (f EventForm) Draft() model.Draft {
	start, _ := normalizeClock(f.StartTime)
	end, _ := normalizeClock(f.EndTime)
	return model.Draft{
		Name:        utils.CleanupString(f.Name),
		StartTime:   start,
		EndTime:     end,
		Description: strings.TrimSpace(f.Description),
		Color:       model.Color(strings.TrimSpace(f.Color)).OrDefault(),
	}
}

// Result of a submit. Form is what the form should show next: a fresh form
// after success, the user's values otherwise.
type Result struct {
	Event    *model.Event
	Fields   FieldErrors
	Conflict *model.ConflictError
	Err      error
	Form     EventForm
}

func (r Result) OK() bool {
	return r.Event != nil
}

// Message is a one-line summary for status bars and CLI output.
func (r Result) Message() string {
	switch {
	case r.Event != nil:
		return "Added " + r.Event.Name + " (" + r.Event.StartTime + "-" + r.Event.EndTime + ")"
	case r.Conflict != nil:
		return "This event conflicts with " + r.Conflict.Existing.Name +
			" (" + r.Conflict.Existing.StartTime + "-" + r.Conflict.Existing.EndTime + "). Please choose a different time."
	case len(r.Fields) > 0:
		for _, field := range []string{model.FieldName, model.FieldStartTime, model.FieldEndTime, model.FieldColor} {
			if msg, ok := r.Fields[field]; ok {
				return msg
			}
		}
		return "Invalid event"
	case r.Err != nil:
		return r.Err.Error()
	}
	return ""
}

// Submit validates the form and hands it to the store. Nothing reaches the
// store when validation fails; on a conflict the entered values are kept.
func (f EventForm) Submit(ctx context.Context, adder Adder, day model.DayKey) Result {
	if errs := f.Validate(); errs != nil {
		return Result{Fields: errs, Form: f}
	}

	event, err := adder.AddEvent(ctx, day, f.Draft())
	if err != nil {
		var conflict *model.ConflictError
		var verr *model.ValidationError
		switch {
		case errors.As(err, &conflict):
			return Result{Conflict: conflict, Err: err, Form: f}
		case errors.As(err, &verr):
			return Result{Fields: FieldErrors(verr.Fields), Err: err, Form: f}
		default:
			return Result{Err: err, Form: f}
		}
	}

	return Result{Event: &event, Form: New()}
}
