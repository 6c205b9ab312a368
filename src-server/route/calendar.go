package route

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"monthcal/src-server/form"
	"monthcal/src-server/grid"
	"monthcal/src-server/model"
	"monthcal/src-server/utils"
)

func Calendar(muxer *http.ServeMux, as *utils.AppState) {
	type CellRespBody struct {
		Date       model.DayKey  `json:"date"`
		InMonth    bool          `json:"inMonth"`
		IsToday    bool          `json:"isToday"`
		IsSelected bool          `json:"isSelected"`
		Events     []model.Event `json:"events"`
	}

	type GridRespBody struct {
		Title    string         `json:"title"`
		Month    string         `json:"month"`
		Weekdays []string       `json:"weekdays"`
		Selected model.DayKey   `json:"selected,omitempty"`
		Filter   string         `json:"filter,omitempty"`
		Cells    []CellRespBody `json:"cells"`
	}

	// month grid with filtered events per cell
	muxer.HandleFunc("GET /calendar/grid", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			query := r.URL.Query()

			// #region - parse query
			month, err := utils.ParseMonth(as.When, query.Get("month"), now)
			if err != nil {
				writeText(w, http.StatusBadRequest, "Invalid month")
				return
			}
			viewState := grid.NewViewState(now).
				GoTo(month).
				WithFilter(strings.TrimSpace(query.Get("q")))
			if selected := query.Get("selected"); selected != "" {
				day, err := utils.ParseDay(as.When, selected, now)
				if err != nil {
					writeText(w, http.StatusBadRequest, "Invalid selected day")
					return
				}
				viewState = viewState.Select(day)
			}
			// #endregion

			// #region - build response body
			selected, _ := viewState.Selected()
			respBody := GridRespBody{
				Title:    viewState.Title(),
				Month:    viewState.Month().Format(utils.MonthLayout),
				Weekdays: grid.WeekdayLabels,
				Selected: selected,
				Filter:   viewState.Filter(),
			}
			for _, cell := range viewState.Cells(as.Store, now) {
				respBody.Cells = append(respBody.Cells, CellRespBody{
					Date:       cell.Key,
					InMonth:    cell.InMonth,
					IsToday:    cell.IsToday,
					IsSelected: cell.IsSelected,
					Events:     nonNil(cell.Events),
				})
			}
			respBodyJson, err := json.Marshal(respBody)
			if err != nil {
				writeText(w, http.StatusInternalServerError, "Can't marshal response body")
				return
			}
			// #endregion

			writeJSON(w, http.StatusOK, respBodyJson)
		}))

	// one day's events, filtered
	muxer.HandleFunc("GET /calendar/days/{date}", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			day, err := utils.ParseDay(as.When, r.PathValue("date"), time.Now())
			if err != nil {
				writeText(w, http.StatusBadRequest, "Invalid date")
				return
			}
			events := as.Store.Filter(day, strings.TrimSpace(r.URL.Query().Get("q")))
			respBodyJson, err := json.Marshal(nonNil(events))
			if err != nil {
				writeText(w, http.StatusInternalServerError, "Can't marshal response body")
				return
			}
			writeJSON(w, http.StatusOK, respBodyJson)
		}))

	type AddEventRespBody struct {
		Event    *model.Event      `json:"event,omitempty"`
		Fields   map[string]string `json:"fields,omitempty"`
		Conflict *model.Event      `json:"conflict,omitempty"`
		Message  string            `json:"message,omitempty"`
		Form     form.EventForm    `json:"form"`
	}

	// submit the entry form for a day
	muxer.HandleFunc("POST /calendar/days/{date}/events", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			day, err := utils.ParseDay(as.When, r.PathValue("date"), time.Now())
			if err != nil {
				writeText(w, http.StatusBadRequest, "Invalid date")
				return
			}

			reqBody := form.New()
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				writeText(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			// #region - submit & map the result to a status
			result := reqBody.Submit(r.Context(), as.Store, day)
			respBody := AddEventRespBody{
				Event:   result.Event,
				Fields:  result.Fields,
				Message: result.Message(),
				Form:    result.Form,
			}
			status := http.StatusCreated
			switch {
			case result.OK():
			case result.Conflict != nil:
				respBody.Conflict = &result.Conflict.Existing
				status = http.StatusConflict
			case len(result.Fields) > 0:
				status = http.StatusUnprocessableEntity
			default:
				slog.Error("can't add event", "day", day, "error", result.Err)
				writeText(w, http.StatusInternalServerError, "Can't add event")
				return
			}
			// #endregion

			respBodyJson, err := json.Marshal(respBody)
			if err != nil {
				writeText(w, http.StatusInternalServerError, "Can't marshal response body")
				return
			}
			writeJSON(w, status, respBodyJson)
		}))

	// delete an event by id
	muxer.HandleFunc("DELETE /calendar/days/{date}/events/{id}", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			day, err := utils.ParseDay(as.When, r.PathValue("date"), time.Now())
			if err != nil {
				writeText(w, http.StatusBadRequest, "Invalid date")
				return
			}
			err = as.Store.DeleteEvent(r.Context(), day, r.PathValue("id"))
			switch {
			case err == nil:
				w.WriteHeader(http.StatusNoContent)
			case errors.Is(err, model.ErrEventNotFound):
				writeText(w, http.StatusNotFound, "Event not found")
			default:
				slog.Error("can't delete event", "day", day, "error", err)
				writeText(w, http.StatusInternalServerError, "Can't delete event")
			}
		}))

	type MoveReqBody struct {
		Source      *model.Slot `json:"source"`
		Destination *model.Slot `json:"destination"`
	}

	// move an event between or within days, a null destination is a cancelled drag
	muxer.HandleFunc("POST /calendar/move", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			var reqBody MoveReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				writeText(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			if reqBody.Source == nil {
				writeText(w, http.StatusBadRequest, "Please provide a source")
				return
			}
			for _, slot := range []*model.Slot{reqBody.Source, reqBody.Destination} {
				if slot == nil {
					continue
				}
				day, err := model.ParseDayKey(string(slot.Day))
				if err != nil {
					writeText(w, http.StatusBadRequest, "Invalid date")
					return
				}
				slot.Day = day
			}

			err := as.Store.MoveEvent(r.Context(), *reqBody.Source, reqBody.Destination)
			switch {
			case err == nil:
				w.WriteHeader(http.StatusNoContent)
			case errors.Is(err, model.ErrIndexOutOfRange):
				writeText(w, http.StatusBadRequest, "Source index out of range")
			case errors.Is(err, model.ErrConflict):
				writeText(w, http.StatusConflict, err.Error())
			default:
				slog.Error("can't move event", "error", err)
				writeText(w, http.StatusInternalServerError, "Can't move event")
			}
		}))
}

func nonNil(events []model.Event) []model.Event {
	if events == nil {
		return []model.Event{}
	}
	return events
}
