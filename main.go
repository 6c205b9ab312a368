package main

import (
	"log/slog"
	"os"
	"time"

	"monthcal/src-server/cli"
	"monthcal/src-server/utils"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      utils.LogLevelFromEnv(),
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	cli.Execute()
}
