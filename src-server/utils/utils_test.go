package utils_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"monthcal/src-server/model"
	"monthcal/src-server/utils"
)

func TestNewConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_PATH", "STORAGE_KEY", "EXPORT_DIR", "STRICT_MOVE", "METRIC_COLLECTION_INTERVAL"} {
		t.Setenv(key, "")
	}
	c := utils.NewConfig()

	if c.GetPort() != "8080" {
		t.Errorf("port = %s", c.GetPort())
	}
	if c.GetDatabasePath() != "./sqlite.db" {
		t.Errorf("database path = %s", c.GetDatabasePath())
	}
	if c.GetStorageKey() != model.DefaultStorageKey {
		t.Errorf("storage key = %s", c.GetStorageKey())
	}
	if c.GetExportDir() != "." {
		t.Errorf("export dir = %s", c.GetExportDir())
	}
	if c.GetStrictMove() {
		t.Error("strict move should be off by default")
	}
	if c.GetMetricCollectionInterval() != 5*time.Second {
		t.Errorf("metric interval = %s", c.GetMetricCollectionInterval())
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("STORAGE_KEY", "other")
	t.Setenv("EXPORT_DIR", "out/")
	t.Setenv("STRICT_MOVE", "true")
	t.Setenv("METRIC_COLLECTION_INTERVAL", "1m")
	c := utils.NewConfig()

	if c.GetPort() != "9999" || c.GetStorageKey() != "other" || c.GetExportDir() != "out" {
		t.Errorf("unexpected config %+v", c)
	}
	if !c.GetStrictMove() {
		t.Error("STRICT_MOVE=true was ignored")
	}
	if c.GetMetricCollectionInterval() != time.Minute {
		t.Errorf("metric interval = %s", c.GetMetricCollectionInterval())
	}
}

func TestBunDebug(t *testing.T) {
	tests := []struct {
		value string
		set   bool
		want  bool
	}{
		{"", false, false},
		{"0", true, false},
		{"1", true, true},
		{"2", true, true},
	}
	for _, tt := range tests {
		if tt.set {
			t.Setenv("BUNDEBUG", tt.value)
		} else {
			t.Setenv("BUNDEBUG", "")
			os.Unsetenv("BUNDEBUG")
		}
		if got := utils.NewConfig().GetBunDebug(); got != tt.want {
			t.Errorf("BUNDEBUG=%q (set=%v): GetBunDebug() = %v, want %v", tt.value, tt.set, got, tt.want)
		}
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	if utils.LogLevelFromEnv().String() != "WARN" {
		t.Errorf("level = %s", utils.LogLevelFromEnv())
	}
	t.Setenv("LOG_LEVEL", "")
	if utils.LogLevelFromEnv().String() != "DEBUG" {
		t.Errorf("default level = %s", utils.LogLevelFromEnv())
	}
}

func TestParseDay(t *testing.T) {
	parser := utils.NewWhenParser()
	now := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.Local) // a Wednesday

	tests := []struct {
		text string
		want model.DayKey
	}{
		{"", "2025-01-15"},
		{"2025-03-01", "2025-03-01"},
		{"2025-3-1", "2025-03-01"},
		{" 2024-02-29 ", "2024-02-29"},
		{"tomorrow", "2025-01-16"},
		{"yesterday", "2025-01-14"},
	}
	for _, tt := range tests {
		got, err := utils.ParseDay(parser, tt.text, now)
		if err != nil {
			t.Errorf("ParseDay(%q) error: %v", tt.text, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDay(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}

	for _, bad := range []string{"qwerty", "2025-02-30", "2025-13-01", "2023-02-29", "tomorrow qwerty"} {
		if got, err := utils.ParseDay(parser, bad, now); err == nil {
			t.Errorf("ParseDay(%q) = %s, want an error", bad, got)
		}
	}
}

func TestParseMonth(t *testing.T) {
	parser := utils.NewWhenParser()
	now := time.Date(2025, time.January, 31, 10, 0, 0, 0, time.Local)

	got, err := utils.ParseMonth(parser, "2024-02", now)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.Local)) {
		t.Errorf("ParseMonth(2024-02) = %v", got)
	}

	if got, err := utils.ParseMonth(parser, "2025-13", now); err == nil {
		t.Errorf("ParseMonth(2025-13) = %v, want an error", got)
	}

	got, err = utils.ParseMonth(parser, "", now)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)) {
		t.Errorf("ParseMonth(\"\") = %v", got)
	}
}

func TestCleanupString(t *testing.T) {
	if got := utils.CleanupString("  Team \t standup \n"); got != "Team standup" {
		t.Errorf("CleanupString = %q", got)
	}
}

func TestMetricNeverBlocks(t *testing.T) {
	m := utils.NewMetric()
	for i := 0; i < 10; i++ {
		m.RecordRead(time.Millisecond)
		m.RecordWrite(time.Millisecond)
		m.RecordEventCount(i)
	}
	if got := <-m.EventCount; got != 9 {
		t.Errorf("latest event count = %v, want 9", got)
	}
	if got := <-m.StorageRead; got != 1000 {
		t.Errorf("read latency = %v", got)
	}
}

func TestAppState(t *testing.T) {
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "test.db"))
	t.Setenv("STORAGE_KEY", "")
	ctx := context.Background()

	as, err := utils.NewAppState(ctx, utils.NewConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := as.Store.AddEvent(ctx, "2025-01-15", model.Draft{Name: "A", StartTime: "09:00", EndTime: "10:00"}); err != nil {
		t.Fatal(err)
	}
	exists, err := as.Storage.Exists(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("add should have written the storage slot")
	}

	ch := as.CreateGracefulShutdownChan()
	as.GracefulShutdown()
	select {
	case <-*ch:
	default:
		t.Error("graceful shutdown channel was not closed")
	}
}
