package model

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

const DefaultStorageKey = "calendarEvents"

// KVSlot is one key-value slot. The calendar lives entirely inside a single
// slot, overwritten in full on every save.
type KVSlot struct {
	bun.BaseModel `bun:"table:kv_slots"`

	Key       string `bun:"key,pk"`        // required
	Value     string `bun:"value,notnull"` // required
	UpdatedAt int64  `bun:"updated_at"`
}

func (k *KVSlot) Upsert(ctx context.Context, db bun.IDB) error {
	if k.Key == "" {
		return fmt.Errorf("(*KVSlot).Upsert: key is required")
	}
	k.UpdatedAt = time.Now().UTC().Unix()

	if _, err := db.NewInsert().
		Model(k).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*KVSlot).Upsert: %w", err)
	}

	return nil
}

// KVStorage persists CalendarEvents as JSON under one slot key.
type KVStorage struct {
	db  bun.IDB
	key string
}

func NewKVStorage(db bun.IDB, key string) *KVStorage {
	if key == "" {
		key = DefaultStorageKey
	}
	return &KVStorage{db: db, key: key}
}

func (s *KVStorage) Key() string {
	return s.key
}

// Load returns an empty mapping when the slot has never been written.
func (s *KVStorage) Load(ctx context.Context) (CalendarEvents, error) {
	slot := new(KVSlot)
	err := s.db.NewSelect().
		Model(slot).
		Where("key = ?", s.key).
		Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return make(CalendarEvents), nil
	case err != nil:
		return nil, fmt.Errorf("(*KVStorage).Load: %w", err)
	}

	events := make(CalendarEvents)
	if err := json.Unmarshal([]byte(slot.Value), &events); err != nil {
		return nil, fmt.Errorf("(*KVStorage).Load: unmarshal slot %q: %w", s.key, err)
	}
	if events == nil {
		events = make(CalendarEvents)
	}
	return events, nil
}

func (s *KVStorage) Save(ctx context.Context, events CalendarEvents) error {
	if events == nil {
		events = make(CalendarEvents)
	}
	value, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("(*KVStorage).Save: marshal: %w", err)
	}
	slot := &KVSlot{Key: s.key, Value: string(value)}
	if err := slot.Upsert(ctx, s.db); err != nil {
		return fmt.Errorf("(*KVStorage).Save: %w", err)
	}
	return nil
}

// Exists is a cheap read used to probe storage latency.
func (s *KVStorage) Exists(ctx context.Context) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*KVSlot)(nil)).
		Where("key = ?", s.key).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("(*KVStorage).Exists: %w", err)
	}
	return exists, nil
}
