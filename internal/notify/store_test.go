package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"skydeck/internal/kv"
)

const testKey = "dashboard_notifications"

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func sampleNotification(id int64, category Category, read bool) Notification {
	return Notification{
		ID:        id,
		Category:  category,
		Title:     "title",
		Message:   "message",
		CreatedAt: time.Unix(1700000000+id, 0).UTC(),
		Read:      read,
		Priority:  PriorityMedium,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()

	store := Open(ctx, mem, testKey, noopLogger())
	if err := store.Create(ctx, sampleNotification(1, CategoryFlight, false)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := store.Create(ctx, sampleNotification(2, CategoryMarket, true)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// A fresh store over the same backend sees the persisted items in
	// insertion order.
	reopened := Open(ctx, mem, testKey, noopLogger())
	items := reopened.List(FilterAll)
	if len(items) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(items))
	}
	if items[0].ID != 1 || items[1].ID != 2 {
		t.Fatalf("insertion order not preserved: %#v", items)
	}
}

func TestStoreDuplicateIDsAllowed(t *testing.T) {
	ctx := context.Background()
	store := Open(ctx, kv.NewMemory(), testKey, noopLogger())

	_ = store.Create(ctx, sampleNotification(7, CategoryWeather, false))
	_ = store.Create(ctx, sampleNotification(7, CategoryWeather, false))

	if got := store.Counts().Total; got != 2 {
		t.Fatalf("duplicate IDs should both be stored, got %d", got)
	}

	// Mutations touch only the first match.
	if err := store.MarkRead(ctx, 7); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	items := store.List(FilterAll)
	if !items[0].Read || items[1].Read {
		t.Fatalf("only the first match should flip: %#v", items)
	}

	if err := store.Delete(ctx, 7); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := store.Counts().Total; got != 1 {
		t.Fatalf("delete should remove one entry, got %d", got)
	}
}

func TestStoreUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	store := Open(ctx, kv.NewMemory(), testKey, noopLogger())
	_ = store.Create(ctx, sampleNotification(1, CategoryFlight, false))

	if err := store.MarkRead(ctx, 999); err != nil {
		t.Fatalf("unknown id should not error: %v", err)
	}
	if err := store.Delete(ctx, 999); err != nil {
		t.Fatalf("unknown id should not error: %v", err)
	}
	if got := store.Counts().Total; got != 1 {
		t.Fatalf("collection should be untouched, got %d", got)
	}
}

func TestMarkAllReadIdempotent(t *testing.T) {
	ctx := context.Background()
	store := Open(ctx, kv.NewMemory(), testKey, noopLogger())
	_ = store.Create(ctx, sampleNotification(1, CategoryFlight, false))
	_ = store.Create(ctx, sampleNotification(2, CategoryMarket, true))

	for i := 0; i < 2; i++ {
		if err := store.MarkAllRead(ctx); err != nil {
			t.Fatalf("mark all read failed: %v", err)
		}
		if got := store.Counts().Unread; got != 0 {
			t.Fatalf("unread should be 0 after pass %d, got %d", i+1, got)
		}
	}
}

func TestDeleteAllPersistsEmptyArray(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	store := Open(ctx, mem, testKey, noopLogger())
	_ = store.Create(ctx, sampleNotification(1, CategoryFlight, false))

	if err := store.DeleteAll(ctx); err != nil {
		t.Fatalf("delete all failed: %v", err)
	}

	raw, found, _ := mem.Get(ctx, testKey)
	if !found {
		t.Fatal("key should still exist after delete all")
	}
	if raw != "[]" {
		t.Fatalf("empty collection should serialise as [], got %q", raw)
	}
}

func TestCorruptStoredValueStartsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	_ = mem.Set(ctx, testKey, "{not json")

	store := Open(ctx, mem, testKey, noopLogger())
	if got := store.Counts().Total; got != 0 {
		t.Fatalf("corrupt payload should yield an empty collection, got %d", got)
	}
}

func TestFilters(t *testing.T) {
	ctx := context.Background()
	store := Open(ctx, kv.NewMemory(), testKey, noopLogger())
	_ = store.Create(ctx, sampleNotification(1, CategoryFlight, true))
	_ = store.Create(ctx, sampleNotification(2, CategoryMarket, false))
	_ = store.Create(ctx, sampleNotification(3, CategoryWeather, false))

	if got := len(store.List(FilterAll)); got != 3 {
		t.Fatalf("all filter should return 3, got %d", got)
	}
	if got := len(store.List(FilterUnread)); got != 2 {
		t.Fatalf("unread filter should return 2, got %d", got)
	}
	if got := store.List(Filter(CategoryMarket)); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("category filter wrong: %#v", got)
	}
}

func TestCounts(t *testing.T) {
	ctx := context.Background()
	store := Open(ctx, kv.NewMemory(), testKey, noopLogger())
	_ = store.Create(ctx, sampleNotification(1, CategoryFlight, true))
	high := sampleNotification(2, CategoryWeather, false)
	high.Priority = PriorityHigh
	_ = store.Create(ctx, high)

	counts := store.Counts()
	if counts.Total != 2 || counts.Unread != 1 || counts.HighPriority != 1 {
		t.Fatalf("counts wrong: %#v", counts)
	}
}

func TestWireFormatMatchesStoredCollection(t *testing.T) {
	raw, err := json.Marshal(sampleNotification(1, CategoryFlight, false))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	_ = json.Unmarshal(raw, &decoded)
	for _, field := range []string{"id", "type", "title", "message", "timestamp", "read", "priority"} {
		if _, present := decoded[field]; !present {
			t.Fatalf("wire field %q missing: %s", field, raw)
		}
	}
}
