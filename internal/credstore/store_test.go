package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/medvault/portal/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "token")
	return New(path, logger.New("error"))
}

func TestStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	credential, err := store.Load()
	if err != nil {
		t.Fatalf("Unexpected error loading missing credential: %v", err)
	}
	if credential != "" {
		t.Errorf("Expected empty credential, got %q", credential)
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("t1"); err != nil {
		t.Fatalf("Failed to save credential: %v", err)
	}

	credential, err := store.Load()
	if err != nil {
		t.Fatalf("Failed to load credential: %v", err)
	}
	if credential != "t1" {
		t.Errorf("Expected credential 't1', got %q", credential)
	}

	info, err := os.Stat(store.path)
	if err != nil {
		t.Fatalf("Failed to stat credential file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("Expected file mode 0600, got %v", info.Mode().Perm())
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("old-token"); err != nil {
		t.Fatalf("Failed to save credential: %v", err)
	}
	if err := store.Save("new-token"); err != nil {
		t.Fatalf("Failed to overwrite credential: %v", err)
	}

	credential, err := store.Load()
	if err != nil {
		t.Fatalf("Failed to load credential: %v", err)
	}
	if credential != "new-token" {
		t.Errorf("Expected credential 'new-token', got %q", credential)
	}
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("t1"); err != nil {
		t.Fatalf("Failed to save credential: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Failed to clear credential: %v", err)
	}

	credential, err := store.Load()
	if err != nil {
		t.Fatalf("Unexpected error after clear: %v", err)
	}
	if credential != "" {
		t.Errorf("Expected empty credential after clear, got %q", credential)
	}

	// Clearing again must be idempotent
	if err := store.Clear(); err != nil {
		t.Errorf("Expected idempotent clear, got %v", err)
	}
}
