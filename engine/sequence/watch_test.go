package sequence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestWatcherReportsConfigChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	path := filepath.Join(dir, "fire.yaml")
	if err := os.WriteFile(path, []byte("amount: 3\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	select {
	case got := <-w.Events:
		if got != path {
			t.Errorf("event path = %q, want %q", got, path)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config change event")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	select {
	case _, ok := <-w.Events:
		if ok {
			t.Error("expected Events to be closed")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Events was not closed")
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestIsConfigFile(t *testing.T) {
	tests := map[string]bool{
		"a.yaml":     true,
		"b.YML":      true,
		"c.yml":      true,
		"d.json":     false,
		"e":          false,
		"f.yaml.bak": false,
	}
	for path, want := range tests {
		if got := isConfigFile(path); got != want {
			t.Errorf("isConfigFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWatcherAcceptDebounces(t *testing.T) {
	w := &Watcher{seen: make(map[string]time.Time)}
	t0 := time.Unix(100, 0)

	tests := []struct {
		name string
		ev   fsnotify.Event
		at   time.Time
		want bool
	}{
		{"first write", fsnotify.Event{Name: "fire.yaml", Op: fsnotify.Write}, t0, true},
		{"repeat inside window", fsnotify.Event{Name: "fire.yaml", Op: fsnotify.Write}, t0.Add(50 * time.Millisecond), false},
		{"other file inside window", fsnotify.Event{Name: "smoke.yml", Op: fsnotify.Create}, t0.Add(50 * time.Millisecond), true},
		{"repeat after window", fsnotify.Event{Name: "fire.yaml", Op: fsnotify.Rename}, t0.Add(150 * time.Millisecond), true},
		{"chmod only", fsnotify.Event{Name: "fire.yaml", Op: fsnotify.Chmod}, t0.Add(time.Second), false},
		{"not a config", fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, t0, false},
	}
	for _, tt := range tests {
		if got := w.accept(tt.ev, tt.at); got != tt.want {
			t.Errorf("%s: accept() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
