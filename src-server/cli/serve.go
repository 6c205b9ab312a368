package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"monthcal/src-server/metric"
	"monthcal/src-server/route"

	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  `Serve the calendar API and prometheus metrics on PORT until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			as := a.as
			metric.Init(as)

			// http server
			muxer := http.NewServeMux()
			route.Metric(muxer, as)
			route.Calendar(muxer, as)
			route.Export(muxer, as)
			server := &http.Server{
				Addr:    ":" + as.Config.GetPort(),
				Handler: muxer,
			}
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("cannot start HTTP server", "error", err)
					as.AppCloseSignalChan <- syscall.SIGTERM
				}
			}()

			slog.Info("app is now running, press Ctrl+C to exit", "port", as.Config.GetPort(), "events", as.Store.Count())

			signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
			<-as.AppCloseSignalChan
			slog.Info("Gracefully shutting down...")

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}
}
