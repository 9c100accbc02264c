package history

import (
	"path/filepath"
	"testing"
)

func TestRecordAndRecent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if _, err := store.Record("transpile", "main.vr", true, ""); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := store.Record("run", "main.vr", false, "division by zero"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	runs, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Command != "run" || runs[0].Success {
		t.Fatalf("unexpected most recent run: %+v", runs[0])
	}
	if runs[1].Command != "transpile" || !runs[1].Success {
		t.Fatalf("unexpected older run: %+v", runs[1])
	}
}

func TestRecentRespectsLimit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	for i := 0; i < 5; i++ {
		if _, err := store.Record("tokenize", "a.vr", true, ""); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	runs, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
}
