// Package daemon keeps a calendar store in sync with its source files while
// a long-lived process runs.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/username/workday-calendar/internal/calendar"
	"go.uber.org/zap"
)

const defaultDebounce = 250 * time.Millisecond

// Reloader builds a fresh calendar from its sources
type Reloader func() (*calendar.BusinessCalendar, error)

// Daemon watches config and holiday files and republishes the calendar
// when they change
type Daemon struct {
	store    *calendar.Store
	reload   Reloader
	paths    map[string]bool // cleaned absolute paths
	debounce time.Duration
	logger   *zap.Logger

	ready     chan struct{}
	readyOnce sync.Once

	mu         sync.Mutex // Serializes reloads
	reloads    int
	failures   int
	lastReload time.Time
	lastError  error
}

// NewDaemon creates a daemon that calls reload when any of paths changes
func NewDaemon(store *calendar.Store, reload Reloader, paths []string, logger *zap.Logger) (*Daemon, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	watched := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		watched[filepath.Clean(abs)] = true
	}
	if len(watched) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}

	return &Daemon{
		store:    store,
		reload:   reload,
		paths:    watched,
		debounce: defaultDebounce,
		logger:   logger,
		ready:    make(chan struct{}),
	}, nil
}

// Start runs the daemon until ctx is cancelled or SIGINT or SIGTERM arrives.
// SIGHUP forces a reload.
func (d *Daemon) Start(ctx context.Context) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	return d.run(ctx, sigChan)
}

// Run watches until ctx is cancelled
func (d *Daemon) Run(ctx context.Context) error {
	return d.run(ctx, nil)
}

// Ready is closed once the file watches are in place, or when the first run
// fails before reaching that point
func (d *Daemon) Ready() <-chan struct{} {
	return d.ready
}

// Files returns the watched files, sorted
func (d *Daemon) Files() []string {
	files := make([]string, 0, len(d.paths))
	for p := range d.paths {
		files = append(files, p)
	}
	sort.Strings(files)
	return files
}

func (d *Daemon) markReady() {
	d.readyOnce.Do(func() { close(d.ready) })
}

func (d *Daemon) run(ctx context.Context, sigChan <-chan os.Signal) error {
	defer d.markReady()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch directories so editors that replace files by rename are seen
	dirs := make(map[string]bool)
	for p := range d.paths {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	d.logger.Info("Daemon started",
		zap.Int("files", len(d.paths)),
		zap.Duration("debounce", d.debounce))
	d.markReady()

	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Daemon stopped")
			return nil

		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				d.logger.Info("Received SIGHUP, reloading calendar")
				_ = d.ReloadNow()
				continue
			}
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !d.relevant(event) {
				continue
			}
			d.logger.Debug("Watched file changed",
				zap.String("file", event.Name),
				zap.String("op", event.Op.String()))
			pending = time.After(d.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.logger.Warn("File watcher error", zap.Error(err))

		case <-pending:
			pending = nil
			_ = d.ReloadNow()
		}
	}
}

func (d *Daemon) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	return d.paths[filepath.Clean(event.Name)]
}

// ReloadNow rebuilds the calendar and publishes it.
// On failure the current calendar stays in place.
func (d *Daemon) ReloadNow() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cal, err := d.reload()
	if err != nil {
		d.failures++
		d.lastError = err
		d.logger.Error("Calendar reload failed, keeping current calendar", zap.Error(err))
		return fmt.Errorf("failed to reload calendar: %w", err)
	}

	d.store.Replace(cal)
	d.reloads++
	d.lastReload = time.Now()
	d.lastError = nil

	d.logger.Info("Calendar reloaded",
		zap.Stringer("weekend", cal.WeekendSet()),
		zap.Int("holidays", len(cal.Holidays())),
		zap.Int("reloads", d.reloads))
	return nil
}

// GetStatus returns daemon status
func (d *Daemon) GetStatus() map[string]interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := map[string]interface{}{
		"files":    d.Files(),
		"reloads":  d.reloads,
		"failures": d.failures,
	}
	if !d.lastReload.IsZero() {
		status["last_reload"] = d.lastReload.Format(time.RFC3339)
	}
	if d.lastError != nil {
		status["last_error"] = d.lastError.Error()
	}
	return status
}
