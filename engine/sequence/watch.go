package sequence

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// watchDebounce is how long repeat events for one config file are ignored.
	watchDebounce = 100 * time.Millisecond

	watchOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove
)

// Watcher reports edits to sequence config files (.yaml / .yml) so a host can reload them.
type Watcher struct {
	// Events receives the path of each changed config file, at most once per debounce window.
	// Closed when the watcher stops.
	Events chan string
	// Errors receives fsnotify errors. An error arriving while another is still unread is dropped.
	// Closed when the watcher stops.
	Errors chan error

	fs        *fsnotify.Watcher
	seen      map[string]time.Time
	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher starts watching the config files in dirs.
//
// Parameters:
//   - dirs: the directories to watch
//
// Returns:
//   - *Watcher: the running watcher
//   - error: an error if the watcher could not be created or a directory could not be added
func NewWatcher(dirs ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	w := &Watcher{
		Events: make(chan string, 16),
		Errors: make(chan error, 1),
		fs:     fs,
		seen:   make(map[string]time.Time),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. Calling it again returns nil.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

// run forwards accepted events until Close. Only run closes the public channels, so a
// pending send never hits a closed channel.
func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.accept(ev, time.Now()) {
				continue
			}
			select {
			case w.Events <- ev.Name:
			case <-w.done:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}

// accept reports whether ev is a config change outside the debounce window, and records it.
func (w *Watcher) accept(ev fsnotify.Event, now time.Time) bool {
	if ev.Op&watchOps == 0 || !isConfigFile(ev.Name) {
		return false
	}
	if last, ok := w.seen[ev.Name]; ok && now.Sub(last) < watchDebounce {
		return false
	}
	w.seen[ev.Name] = now
	return true
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
