package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"monthcal/src-server/model"

	"github.com/google/uuid"
)

// Storage is the durable key-value slot behind the store.
type Storage interface {
	Load(ctx context.Context) (model.CalendarEvents, error)
	Save(ctx context.Context, events model.CalendarEvents) error
}

// Recorder receives storage latencies and the event total after each change.
type Recorder interface {
	RecordRead(d time.Duration)
	RecordWrite(d time.Duration)
	RecordEventCount(n int)
}

type nopRecorder struct{}

func (nopRecorder) RecordRead(time.Duration)  {}
func (nopRecorder) RecordWrite(time.Duration) {}
func (nopRecorder) RecordEventCount(int)      {}

// Store holds the calendar mapping in memory and mirrors it to Storage after
// every mutation. The mapping is never modified in place: each mutation
// builds a new one, saves it, then swaps it in.
type Store struct {
	mu     sync.RWMutex
	events model.CalendarEvents

	storage    Storage
	recorder   Recorder
	strictMove bool
	newID      func() string
}

type Option func(*Store)

func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithStrictMove makes MoveEvent reject moves that overlap an event of the
// destination day.
func WithStrictMove(strict bool) Option {
	return func(s *Store) {
		s.strictMove = strict
	}
}

func WithIDGenerator(f func() string) Option {
	return func(s *Store) {
		if f != nil {
			s.newID = f
		}
	}
}

// New loads the mapping once from storage.
func New(ctx context.Context, storage Storage, opts ...Option) (*Store, error) {
	s := &Store{
		storage:  storage,
		recorder: nopRecorder{},
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	startTimer := time.Now()
	events, err := storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.New: %w", err)
	}
	s.recorder.RecordRead(time.Since(startTimer))
	if events == nil {
		events = make(model.CalendarEvents)
	}
	s.events = events
	s.recorder.RecordEventCount(events.Count())
	slog.Debug("calendar loaded", "days", len(events), "events", events.Count())

	return s, nil
}

// commit persists next and swaps it in. Caller must hold the write lock.
func (s *Store) commit(ctx context.Context, next model.CalendarEvents) error {
	startTimer := time.Now()
	if err := s.storage.Save(ctx, next); err != nil {
		return err
	}
	s.recorder.RecordWrite(time.Since(startTimer))
	s.events = next
	s.recorder.RecordEventCount(next.Count())
	return nil
}

// AddEvent appends a new event to the day's bucket unless it overlaps one
// already there.
func (s *Store) AddEvent(ctx context.Context, day model.DayKey, draft model.Draft) (model.Event, error) {
	if err := draft.Check(); err != nil {
		return model.Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := model.FindConflict(s.events[day], draft.StartTime, draft.EndTime, ""); ok {
		return model.Event{}, &model.ConflictError{
			Day:       day,
			Existing:  existing,
			Candidate: draft,
		}
	}

	event := model.Event{
		ID:          s.newID(),
		Name:        draft.Name,
		StartTime:   draft.StartTime,
		EndTime:     draft.EndTime,
		Description: draft.Description,
		Color:       draft.Color.OrDefault(),
	}
	next := s.events.Clone()
	next[day] = append(next[day], event)

	if err := s.commit(ctx, next); err != nil {
		return model.Event{}, fmt.Errorf("(*Store).AddEvent: %w", err)
	}
	slog.Debug("event added", "day", day, "id", event.ID, "name", event.Name)
	return event, nil
}

// DeleteEvent removes the event with id from the day's bucket.
func (s *Store) DeleteEvent(ctx context.Context, day model.DayKey, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.events[day], func(e model.Event) bool {
		return e.ID == id
	})
	if idx < 0 {
		return fmt.Errorf("(*Store).DeleteEvent: %s on %s: %w", id, day, model.ErrEventNotFound)
	}

	next := s.events.Clone()
	next[day] = slices.Delete(next[day], idx, idx+1)
	if len(next[day]) == 0 {
		delete(next, day)
	}

	if err := s.commit(ctx, next); err != nil {
		return fmt.Errorf("(*Store).DeleteEvent: %w", err)
	}
	slog.Debug("event deleted", "day", day, "id", id)
	return nil
}

// MoveEvent relocates the event at source to dest, splice style. A nil dest
// is a cancelled drag and does nothing. Source and destination may be the
// same day.
func (s *Store) MoveEvent(ctx context.Context, source model.Slot, dest *model.Slot) error {
	if dest == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if source.Index < 0 || source.Index >= len(s.events[source.Day]) {
		return fmt.Errorf("(*Store).MoveEvent: index %d on %s: %w", source.Index, source.Day, model.ErrIndexOutOfRange)
	}

	next := s.events.Clone()
	moved := next[source.Day][source.Index]
	next[source.Day] = slices.Delete(next[source.Day], source.Index, source.Index+1)

	destBucket := next[dest.Day]
	if s.strictMove {
		if existing, ok := model.FindConflict(destBucket, moved.StartTime, moved.EndTime, moved.ID); ok {
			return &model.ConflictError{
				Day:       dest.Day,
				Existing:  existing,
				Candidate: moved.Draft(),
			}
		}
	}

	idx := min(max(dest.Index, 0), len(destBucket))
	next[dest.Day] = slices.Insert(destBucket, idx, moved)
	if len(next[source.Day]) == 0 {
		delete(next, source.Day)
	}

	if err := s.commit(ctx, next); err != nil {
		return fmt.Errorf("(*Store).MoveEvent: %w", err)
	}
	slog.Debug("event moved", "id", moved.ID, "from", source.Day, "to", dest.Day, "index", idx)
	return nil
}

// Filter returns the day's events whose name or description contains
// keyword, case-insensitively. An empty keyword returns the whole bucket.
func (s *Store) Filter(day model.DayKey, keyword string) []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket := s.events[day]
	if keyword == "" {
		return slices.Clone(bucket)
	}
	out := make([]model.Event, 0, len(bucket))
	for _, e := range bucket {
		if model.MatchesKeyword(e, keyword) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) Day(day model.DayKey) []model.Event {
	return s.Filter(day, "")
}

// Snapshot returns a copy of the whole mapping.
func (s *Store) Snapshot() model.CalendarEvents {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.Clone()
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.Count()
}

// IndexOf returns the position of the event with id in the day's full
// bucket, or -1.
func (s *Store) IndexOf(day model.DayKey, id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.IndexFunc(s.events[day], func(e model.Event) bool {
		return e.ID == id
	})
}
