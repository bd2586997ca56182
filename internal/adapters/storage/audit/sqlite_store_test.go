package audit

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"kfet/internal/adapters/storage"
	domain "kfet/internal/domain/audit"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB returned error: %v", err)
	}
	return NewSQLiteStore(db)
}

// TestSaveAndListRecent tests the round trip and newest-first ordering.
func TestSaveAndListRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		e := domain.NewEvent(domain.CategoryRoster, domain.ActionCreate,
			fmt.Sprintf("Member%d", i), "membre ajouté")
		e.Timestamp = base.Add(time.Duration(i) * time.Minute)
		if err := store.Save(ctx, e); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
	}

	events, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent returned error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	if events[0].ResourceID != "Member2" || events[2].ResourceID != "Member0" {
		t.Errorf("events must be newest first, got %q..%q",
			events[0].ResourceID, events[2].ResourceID)
	}

	got := events[0]
	if got.Category != domain.CategoryRoster || got.Action != domain.ActionCreate {
		t.Errorf("category/action = %q/%q", got.Category, got.Action)
	}
	if got.Description != "membre ajouté" {
		t.Errorf("description = %q", got.Description)
	}
	if !got.Timestamp.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("timestamp = %v, want the saved stamp", got.Timestamp)
	}
}

// TestListRecentHonorsLimit tests the row cap.
func TestListRecentHonorsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		e := domain.NewEvent(domain.CategorySlot, domain.ActionUpdate, "2024-06-03", "présence")
		e.Timestamp = time.Date(2024, 6, 3, 10, i, 0, 0, time.UTC)
		if err := store.Save(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	events, err := store.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent returned error: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("events = %d, want the limit of 2", len(events))
	}
}

// TestListRecentEmpty tests the no-events case.
func TestListRecentEmpty(t *testing.T) {
	events, err := openTestStore(t).ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent returned error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events = %d, want none", len(events))
	}
}
