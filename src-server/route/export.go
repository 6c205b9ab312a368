package route

import (
	"log/slog"
	"net/http"
	"time"

	"monthcal/src-server/export"
	"monthcal/src-server/utils"
)

func Export(muxer *http.ServeMux, as *utils.AppState) {
	// download one month of events as json, csv or ics
	muxer.HandleFunc("GET /calendar/export", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			month, err := utils.ParseMonth(as.When, query.Get("month"), time.Now())
			if err != nil {
				writeText(w, http.StatusBadRequest, "Invalid month")
				return
			}
			format, err := export.ParseFormat(query.Get("format"))
			if err != nil {
				writeText(w, http.StatusBadRequest, "Format must be one of json, csv, ics")
				return
			}

			file, err := export.Export(as.Store.Snapshot(), month, format)
			if err != nil {
				slog.Error("can't export events", "month", month, "format", format, "error", err)
				writeText(w, http.StatusInternalServerError, "Can't export events")
				return
			}

			w.Header().Set("Content-Type", file.ContentType)
			w.Header().Set("Content-Disposition", `attachment; filename="`+file.Name+`"`)
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write(file.Data); err != nil {
				slog.Warn("can't write to response", "where", "route/export.go", "err", err)
			}
		}))
}
