package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/timmy/arbitrage/internal/domain"
	"github.com/timmy/arbitrage/internal/logger"
)

// DefaultSettle is how long a file must go without writes before it is picked up.
const DefaultSettle = 500 * time.Millisecond

// HandlerFunc receives each manifest dropped into the watched directory.
type HandlerFunc func(ctx context.Context, src Source, m domain.Manifest) error

// DropDir watches a directory and hands every new matching file to a handler
// once writes to it have settled.
type DropDir struct {
	dir     string
	pattern string
	settle  time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	handled map[string]time.Time
}

// NewDropDir creates a watcher for dir. pattern is a filepath.Match pattern
// applied to base names; empty means "*.csv".
func NewDropDir(dir, pattern string) *DropDir {
	if pattern == "" {
		pattern = "*.csv"
	}
	return &DropDir{
		dir:     filepath.Clean(dir),
		pattern: pattern,
		settle:  DefaultSettle,
		timers:  make(map[string]*time.Timer),
		handled: make(map[string]time.Time),
	}
}

// WithSettle overrides the settle delay.
func (d *DropDir) WithSettle(settle time.Duration) *DropDir {
	d.settle = settle
	return d
}

// Dir returns the watched directory.
func (d *DropDir) Dir() string { return d.dir }

// Watch blocks until ctx is cancelled, calling fn for each settled file.
// Handler errors are logged and do not stop the watch.
func (d *DropDir) Watch(ctx context.Context, fn HandlerFunc) error {
	info, err := os.Stat(d.dir)
	if err != nil {
		return fmt.Errorf("cannot access watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", d.dir)
	}
	if _, err := filepath.Match(d.pattern, "x"); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", d.pattern, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer d.cleanup(watcher)

	if err := watcher.Add(d.dir); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	log := logger.FromContext(ctx).WithField(logger.FieldComponent, "dropdir")
	log.Infof("Watching %s for %s", d.dir, d.pattern)

	ready := make(chan string, 16)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			d.handleEvent(ctx, event, ready)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.WithError(err).Warn("Watcher error")

		case path := <-ready:
			d.process(ctx, path, fn, log)
		}
	}
}

// handleEvent (re)arms the settle timer for files that were created or written.
func (d *DropDir) handleEvent(ctx context.Context, event fsnotify.Event, ready chan<- string) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if ok, _ := filepath.Match(d.pattern, filepath.Base(event.Name)); !ok {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[event.Name]; ok {
		t.Reset(d.settle)
		return
	}
	path := event.Name
	d.timers[path] = time.AfterFunc(d.settle, func() {
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (d *DropDir) process(ctx context.Context, path string, fn HandlerFunc, log *logger.Logger) {
	d.mu.Lock()
	delete(d.timers, path)
	d.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	d.mu.Lock()
	if prev, ok := d.handled[path]; ok && prev.Equal(info.ModTime()) {
		d.mu.Unlock()
		return
	}
	d.handled[path] = info.ModTime()
	d.mu.Unlock()

	src := NewFile(path, "")
	m, err := src.Read(ctx)
	if err != nil {
		log.WithError(err).Warnf("Skipping %s", path)
		return
	}
	if err := fn(ctx, src, m); err != nil {
		log.WithError(err).Warnf("Handler failed for %s", path)
	}
}

func (d *DropDir) cleanup(watcher *fsnotify.Watcher) {
	d.mu.Lock()
	for path, t := range d.timers {
		t.Stop()
		delete(d.timers, path)
	}
	d.mu.Unlock()
	_ = watcher.Close()
}
