package utils

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"monthcal/src-server/model"
	"monthcal/src-server/store"

	"github.com/olebedev/when"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config *Config
	RawDB  *sql.DB
	BunDB  *bun.DB
	When   *when.Parser

	// the single key-value slot holding the calendar
	Storage *model.KVStorage
	// in-memory calendar, mirrored to Storage after every mutation
	Store *store.Store

	MetricChans *Metric

	AppCloseSignalChan     chan os.Signal
	gracefulShutdownChans  []chan struct{}
	gracefulShutdownLocker sync.Mutex
}

func NewAppState(ctx context.Context, config *Config) (*AppState, error) {
	as := &AppState{
		Config:             config,
		MetricChans:        NewMetric(),
		AppCloseSignalChan: make(chan os.Signal, 1),
	}

	// date parser
	as.When = NewWhenParser()

	// database
	var err error
	as.RawDB, err = sql.Open(sqliteshim.ShimName, config.GetDatabasePath()+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("NewAppState: can't open sqlite database: %w", err)
	}
	// sqlite has a single writer; this also keeps ":memory:" on one connection
	as.RawDB.SetMaxOpenConns(1)

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	// BUNDEBUG=1 logs failed queries, BUNDEBUG=2 every query
	if config.GetBunDebug() {
		as.BunDB.AddQueryHook(bundebug.NewQueryHook(
			bundebug.FromEnv("BUNDEBUG"),
		))
	}

	if err := model.CreateSchema(ctx, as.BunDB); err != nil {
		as.BunDB.Close()
		return nil, fmt.Errorf("NewAppState: %w", err)
	}

	// calendar
	as.Storage = model.NewKVStorage(as.BunDB, config.GetStorageKey())
	as.Store, err = store.New(ctx, as.Storage,
		store.WithRecorder(as.MetricChans),
		store.WithStrictMove(config.GetStrictMove()),
	)
	if err != nil {
		as.BunDB.Close()
		return nil, fmt.Errorf("NewAppState: %w", err)
	}

	slog.Debug("app state ready", "database", config.GetDatabasePath(), "events", as.Store.Count())
	return as, nil
}

// CreateGracefulShutdownChan returns a channel closed by GracefulShutdown.
func (as *AppState) CreateGracefulShutdownChan() *chan struct{} {
	as.gracefulShutdownLocker.Lock()
	defer as.gracefulShutdownLocker.Unlock()
	ch := make(chan struct{})
	as.gracefulShutdownChans = append(as.gracefulShutdownChans, ch)
	return &ch
}

func (as *AppState) GracefulShutdown() {
	as.gracefulShutdownLocker.Lock()
	for _, ch := range as.gracefulShutdownChans {
		close(ch)
	}
	as.gracefulShutdownChans = nil
	as.gracefulShutdownLocker.Unlock()

	if as.BunDB != nil {
		if err := as.BunDB.Close(); err != nil {
			slog.Warn("can't close database", "error", err)
		}
	}
}
