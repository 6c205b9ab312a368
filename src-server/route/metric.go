package route

import (
	"net/http"

	"monthcal/src-server/utils"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Metric(muxer *http.ServeMux, as *utils.AppState) {
	handler := promhttp.Handler()
	muxer.HandleFunc("GET /metrics", LogMiddleware(as, handler.ServeHTTP))
}
