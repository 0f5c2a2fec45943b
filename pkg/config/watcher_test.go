package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("notification_body: Before\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	pointConfigAt(t, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	store := NewStore(cfg)

	w, err := NewWatcher(store, path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWatcher(): %v", err)
	}
	defer func() { _ = w.Close() }()

	if err := os.WriteFile(path, []byte("notification_body: After\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if store.Snapshot().NotificationBody == "After" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("config not reloaded; body = %q", store.Snapshot().NotificationBody)
}

func TestWatcherKeepsLastGoodConfigOnBrokenEdit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("notification_body: Good\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	pointConfigAt(t, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	store := NewStore(cfg)

	w, err := NewWatcher(store, path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWatcher(): %v", err)
	}
	defer func() { _ = w.Close() }()

	// A broken edit (invalid duration fails validation) must not
	// clobber the running snapshot.
	if err := os.WriteFile(path, []byte("debounce_window: nonsense\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	if got := store.Snapshot().NotificationBody; got != "Good" {
		t.Errorf("snapshot changed after broken edit; body = %q", got)
	}
}
