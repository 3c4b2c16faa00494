package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"skydeck/internal/kv"
)

// Store owns the ordered notification collection. Every mutation
// writes the full serialised collection back to the key-value store
// before returning; insertion order is preserved.
type Store struct {
	mu     sync.Mutex
	kv     kv.Store
	key    string
	items  []Notification
	logger zerolog.Logger
}

// Open loads the collection from the key-value store. A missing or
// corrupt stored value yields an empty collection, never an error.
func Open(ctx context.Context, store kv.Store, key string, logger zerolog.Logger) *Store {
	s := &Store{
		kv:     store,
		key:    key,
		logger: logger.With().Str("component", "notification_store").Logger(),
	}

	raw, found, err := store.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load notifications; starting empty")
		return s
	}
	if !found {
		return s
	}

	var items []Notification
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn().Err(err).Msg("stored notifications corrupt; starting empty")
		return s
	}
	s.items = items
	return s
}

// List returns the collection filtered by all/unread/category, in
// storage order.
func (s *Store) List(filter Filter) []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, 0, len(s.items))
	for _, n := range s.items {
		if filter.matches(n) {
			out = append(out, n)
		}
	}
	return out
}

// Counts reports total, unread, and high-priority tallies.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := Counts{Total: len(s.items)}
	for _, n := range s.items {
		if !n.Read {
			c.Unread++
		}
		if n.Priority == PriorityHigh {
			c.HighPriority++
		}
	}
	return c
}

// Create appends a notification. The caller supplies the ID; it is not
// checked for uniqueness.
func (s *Store) Create(ctx context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, n)
	return s.persistLocked(ctx)
}

// MarkRead marks the matching notification read. Unknown IDs are a
// no-op.
func (s *Store) MarkRead(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
			break
		}
	}
	return s.persistLocked(ctx)
}

// MarkAllRead marks every notification read. Idempotent.
func (s *Store) MarkAllRead(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		s.items[i].Read = true
	}
	return s.persistLocked(ctx)
}

// Delete removes the matching notification. Unknown IDs are a no-op.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return s.persistLocked(ctx)
}

// DeleteAll empties the collection. Callers are expected to gate this
// behind an explicit confirmation.
func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []Notification{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("serialise notifications: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return fmt.Errorf("persist notifications: %w", err)
	}
	return nil
}
