package app

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"skydeck/internal/storage"
)

// fakeAuditStore is an in-memory AlertAuditStore for exercising the
// show pipeline without a database.
type fakeAuditStore struct {
	records []storage.AuditRecord
	pruned  []time.Time
}

func (f *fakeAuditStore) InsertAlert(ctx context.Context, record storage.AuditRecord) (storage.AuditRecord, error) {
	record.ID = int64(len(f.records) + 1)
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeAuditStore) ListRecentAlerts(ctx context.Context, limit int) ([]storage.AuditRecord, error) {
	if limit > len(f.records) {
		limit = len(f.records)
	}
	out := make([]storage.AuditRecord, limit)
	copy(out, f.records[:limit])
	return out, nil
}

func (f *fakeAuditStore) DeleteAlertsBefore(ctx context.Context, olderThan time.Time) error {
	f.pruned = append(f.pruned, olderThan)
	kept := f.records[:0]
	for _, rec := range f.records {
		if !rec.CreatedAt.Before(olderThan) {
			kept = append(kept, rec)
		}
	}
	f.records = kept
	return nil
}

func (f *fakeAuditStore) CountAlerts(ctx context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

var _ storage.AlertAuditStore = (*fakeAuditStore)(nil)

func auditRecord(title string, age time.Duration) storage.AuditRecord {
	return storage.AuditRecord{
		Category:  "crypto",
		Priority:  "high",
		Title:     title,
		Message:   "BTC moved\nsharply",
		CreatedAt: time.Now().UTC().Add(-age),
	}
}

func TestRenderAlertsListsWithTotal(t *testing.T) {
	store := &fakeAuditStore{records: []storage.AuditRecord{
		auditRecord("first", time.Hour),
		auditRecord("second", 2 * time.Hour),
		auditRecord("third", 3 * time.Hour),
	}}

	var buf bytes.Buffer
	if err := renderAlerts(context.Background(), &buf, store, ShowOptions{Limit: 2}, zerolog.Nop()); err != nil {
		t.Fatalf("renderAlerts failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Fatalf("listed alerts missing from output:\n%s", out)
	}
	if strings.Contains(out, "third") {
		t.Fatalf("limit should cap the listing:\n%s", out)
	}
	if !strings.Contains(out, "2 of 3 archived alerts shown") {
		t.Fatalf("total line missing:\n%s", out)
	}
	if strings.Contains(out, "\nsharply") {
		t.Fatalf("messages should render on one line:\n%s", out)
	}
	if len(store.pruned) != 0 {
		t.Fatalf("prune should be off by default, ran %d times", len(store.pruned))
	}
}

func TestRenderAlertsPrunesBeforeListing(t *testing.T) {
	store := &fakeAuditStore{records: []storage.AuditRecord{
		auditRecord("recent", time.Hour),
		auditRecord("ancient", 100 * 24 * time.Hour),
	}}

	var buf bytes.Buffer
	opts := ShowOptions{Limit: 10, PruneOlderThan: 30 * 24 * time.Hour}
	if err := renderAlerts(context.Background(), &buf, store, opts, zerolog.Nop()); err != nil {
		t.Fatalf("renderAlerts failed: %v", err)
	}

	if len(store.pruned) != 1 {
		t.Fatalf("expected one prune pass, got %d", len(store.pruned))
	}
	out := buf.String()
	if strings.Contains(out, "ancient") {
		t.Fatalf("pruned alert should not be listed:\n%s", out)
	}
	if !strings.Contains(out, "1 of 1 archived alerts shown") {
		t.Fatalf("total should reflect the pruned archive:\n%s", out)
	}
}

func TestRenderAlertsEmptyArchive(t *testing.T) {
	var buf bytes.Buffer
	if err := renderAlerts(context.Background(), &buf, &fakeAuditStore{}, ShowOptions{Limit: 10}, zerolog.Nop()); err != nil {
		t.Fatalf("renderAlerts failed: %v", err)
	}
	if !strings.Contains(buf.String(), "no archived alerts found") {
		t.Fatalf("empty archive message missing:\n%s", buf.String())
	}
}
