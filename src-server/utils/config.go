package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"monthcal/src-server/model"
)

type Config struct {
	port string

	databasePath string
	storageKey   string

	exportDir  string
	strictMove bool

	metricCollectionInterval time.Duration

	bunDebug bool
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		databasePath: func() string {
			databasePath := os.Getenv("DATABASE_PATH")
			if databasePath == "" {
				databasePath = "./sqlite.db"
			}
			slog.Debug("env", "DATABASE_PATH", databasePath)
			return databasePath
		}(),
		storageKey: func() string {
			storageKey := os.Getenv("STORAGE_KEY")
			if storageKey == "" {
				storageKey = model.DefaultStorageKey
			}
			slog.Debug("env", "STORAGE_KEY", storageKey)
			return storageKey
		}(),

		exportDir: func() string {
			exportDir := os.Getenv("EXPORT_DIR")
			if exportDir == "" {
				exportDir = "."
			}
			slog.Debug("env", "EXPORT_DIR", exportDir)
			return filepath.Clean(exportDir)
		}(),
		strictMove: func() bool {
			strictMoveStr := os.Getenv("STRICT_MOVE")
			if strictMoveStr == "" {
				return false
			}
			strictMove, err := strconv.ParseBool(strictMoveStr)
			if err != nil {
				slog.Error("invalid STRICT_MOVE", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "STRICT_MOVE", strictMove)
			return strictMove
		}(),

		metricCollectionInterval: func() time.Duration {
			interval := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if interval == "" {
				interval = "5s"
			}
			duration, err := time.ParseDuration(interval)
			if err != nil || duration <= 0 {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "value", interval, "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", interval, "duration", duration)
			return duration
		}(),

		bunDebug: func() bool {
			bunDebug, ok := os.LookupEnv("BUNDEBUG")
			slog.Debug("env", "BUNDEBUG", bunDebug)
			return ok && bunDebug != "" && bunDebug != "0"
		}(),
	}
}

// Read LOG_LEVEL env, default to debug. Called before the Config exists since
// the logger is installed first.
func LogLevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get DATABASE_PATH env, default to ./sqlite.db
func (c *Config) GetDatabasePath() string {
	return c.databasePath
}

// Get STORAGE_KEY env, default to calendarEvents
func (c *Config) GetStorageKey() string {
	return c.storageKey
}

// Get EXPORT_DIR env, default to the working directory
func (c *Config) GetExportDir() string {
	return c.exportDir
}

// Get STRICT_MOVE env
func (c *Config) GetStrictMove() bool {
	return c.strictMove
}

// Get METRIC_COLLECTION_INTERVAL env, default to 5s
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}

// Get BUNDEBUG env, query logging is off when unset or 0
func (c *Config) GetBunDebug() bool {
	return c.bunDebug
}
