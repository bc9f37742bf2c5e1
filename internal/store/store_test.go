package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/azielinski/nbpstat/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndListRecent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := model.HistoryEntry{
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Kind:      "analyze",
			Subject:   "USD",
			Period:    "1-month",
			StartDate: model.Date(2024, time.February, 1),
			EndDate:   model.Date(2024, time.March, 1),
			Points:    20 + i,
		}
		if _, err := st.InsertEntry(ctx, entry); err != nil {
			t.Fatalf("insert entry %d: %v", i, err)
		}
	}

	entries, err := st.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Points != 22 || entries[1].Points != 21 {
		t.Fatalf("expected newest first, got %+v", entries)
	}
	if entries[0].Kind != "analyze" || entries[0].Subject != "USD" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
	if !entries[0].StartDate.Equal(model.Date(2024, time.February, 1)) {
		t.Fatalf("start date roundtrip failed: %s", entries[0].StartDate)
	}
}

func TestListRecentEmpty(t *testing.T) {
	st := openTestStore(t)
	entries, err := st.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}
