package history

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAddAndGetRecent(t *testing.T) {
	store := newTestStore(t)

	entries := []Entry{
		{ConnectionName: "local", DatabaseName: "app", Statement: `DELETE FROM "users" WHERE "id" = 1;`, Duration: 3 * time.Millisecond, RowsAffected: 1, Success: true},
		{ConnectionName: "local", DatabaseName: "app", Statement: `UPDATE "users" SET "name" = 'x' WHERE "id" = 2;`, Duration: 5 * time.Millisecond, RowsAffected: 1, Success: true},
	}
	for _, e := range entries {
		if err := store.Add(e); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	got, err := store.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	// Most recent first.
	if got[0].Statement != entries[1].Statement {
		t.Errorf("first entry = %q, want the latest statement", got[0].Statement)
	}
	if got[0].Duration != 5*time.Millisecond {
		t.Errorf("duration = %v, want 5ms", got[0].Duration)
	}
}

func TestSearch(t *testing.T) {
	store := newTestStore(t)

	_ = store.Add(Entry{ConnectionName: "local", DatabaseName: "app", Statement: `INSERT INTO "orders" DEFAULT VALUES;`, Success: true})
	_ = store.Add(Entry{ConnectionName: "local", DatabaseName: "app", Statement: `DELETE FROM "users" WHERE "id" = 7;`, Success: true})

	got, err := store.Search("users", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	if got[0].Statement != `DELETE FROM "users" WHERE "id" = 7;` {
		t.Errorf("search hit = %q, want the users delete", got[0].Statement)
	}
}

func TestFailedStatementRecorded(t *testing.T) {
	store := newTestStore(t)

	err := store.Add(Entry{
		ConnectionName: "local",
		DatabaseName:   "app",
		Statement:      `UPDATE "users" SET "id" = NULL WHERE "id" = 1;`,
		Success:        false,
		ErrorMessage:   "null value in column \"id\"",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := store.GetRecent(1)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(got) != 1 || got[0].Success {
		t.Error("failed statement should be recorded with Success = false")
	}
	if got[0].ErrorMessage == "" {
		t.Error("error message should round-trip")
	}
}
