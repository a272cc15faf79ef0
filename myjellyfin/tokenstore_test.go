package myjellyfin_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"jellyfinapi/myjellyfin"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "myjellyfin.json")
	store := myjellyfin.NewFileTokenStore(path)

	state, err := store.Load()
	if err != nil {
		t.Fatalf("Load missing file: %v", err)
	}
	if state.Token != "" || state.ClientIdentifier != "" {
		t.Fatalf("expected empty state for missing file, got %+v", state)
	}

	state.Token = "account-token"
	state.ClientIdentifier = "abc123"
	state.Username = "alice"
	if err := store.Save(state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Token != "account-token" || loaded.ClientIdentifier != "abc123" {
		t.Fatalf("unexpected state: %+v", loaded)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Fatal("expected save to stamp updated_at")
	}
}

func TestFileTokenStoreRestrictsPermissions(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("unix permissions only")
	}

	path := filepath.Join(t.TempDir(), "myjellyfin.json")
	store := myjellyfin.NewFileTokenStore(path)
	if err := store.Save(myjellyfin.TokenState{Token: "secret"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat state file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}
}

func TestFileTokenStoreRejectsCorruptState(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "myjellyfin.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	store := myjellyfin.NewFileTokenStore(path)
	if _, err := store.Load(); err == nil {
		t.Fatal("expected error for corrupt state file")
	}
}
