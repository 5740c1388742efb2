package manifest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cspdashboard/shell/internal/output"
	"github.com/cspdashboard/shell/internal/plugin"
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long a file must be quiet before it is reloaded.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithOnRegister sets a callback run after each manifest the watcher
// registers.
func WithOnRegister(fn func(*plugin.Manifest)) WatcherOption {
	return func(w *Watcher) {
		w.onRegister = fn
	}
}

// Watcher registers manifest files into a registry as they are created or
// changed. Removing a file does not unregister its plugin; registrations are
// never removed.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	reg      *plugin.Registry
	builder  Builder
	dirs     []string
	debounce time.Duration
	pending  map[string]time.Time
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}

	onRegister func(*plugin.Manifest)
}

// NewWatcher creates a watcher for dirs.
func NewWatcher(reg *plugin.Registry, b Builder, dirs []string, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		reg:      reg,
		builder:  b,
		dirs:     dirs,
		debounce: 250 * time.Millisecond,
		pending:  make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	for _, dir := range w.dirs {
		if err := w.fsw.Add(dir); err != nil {
			w.mu.Unlock()
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		output.Debug("watching plugin directory", "dir", dir)
	}
	w.running = true
	w.mu.Unlock()

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit. Stop on a
// watcher that was never started only releases the file watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.fsw.Close(); err != nil {
		output.Warn("closing file watcher", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 2
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			output.Warn("plugin directory watch error", "error", err)
		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !IsManifestFile(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.mu.Lock()
		w.pending[event.Name] = time.Now()
		w.mu.Unlock()
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		output.Info("manifest file removed, plugin stays registered", "file", event.Name)
	}
}

// flush reloads every pending file that has been quiet for the debounce
// period.
func (w *Watcher) flush() {
	now := time.Now()
	var ready []string

	w.mu.Lock()
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		m, err := LoadFile(path, w.builder)
		if err != nil {
			output.Warn("manifest not reloaded", "file", path, "error", err)
			continue
		}
		w.reg.Register(m)
		output.Info("manifest reloaded", "plugin", m.Name, "file", path)
		if w.onRegister != nil {
			w.onRegister(m)
		}
	}
}
