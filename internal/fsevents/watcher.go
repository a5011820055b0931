// Package fsevents watches a workspace for source changes and turns them
// into gap.FileEvents for the scheduler, following the same fsnotify +
// debounce-map idiom as the teacher's mangle watcher.
package fsevents

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fortitude/internal/gap"
	"fortitude/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Handler receives a settled file event. The scheduler's HandleFileEvent
// satisfies this signature directly.
type Handler func(ctx context.Context, event gap.FileEvent) error

// Config controls what the watcher watches and how it debounces.
type Config struct {
	Recursive   bool
	DebounceFor time.Duration
}

// DefaultConfig matches the teacher's 500ms save-debounce window.
func DefaultConfig() Config {
	return Config{Recursive: true, DebounceFor: 500 * time.Millisecond}
}

// Watcher watches one or more root directories and feeds settled changes
// to a Handler as gap.FileEvents.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	config      Config
	handler     Handler
	debounceMap map[string]pendingEvent
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

type pendingEvent struct {
	eventType gap.EventType
	at        time.Time
}

// New creates a Watcher that will invoke handler for every settled event.
func New(config Config, handler Handler) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     w,
		config:      config,
		handler:     handler,
		debounceMap: make(map[string]pendingEvent),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// AddRoot registers root (and, if Config.Recursive, every subdirectory under
// it) with the underlying fsnotify watcher.
func (w *Watcher) AddRoot(root string) error {
	if !w.config.Recursive {
		return w.watcher.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}
		return nil
	})
}

func skipDir(name string) bool {
	switch name {
	case ".git", "node_modules", "vendor", ".nerd":
		return true
	default:
		return false
	}
}

// Start begins the event loop in a background goroutine. Non-blocking.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run(ctx)
}

// Stop halts the event loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	_ = w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.config.DebounceFor / 5)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.record(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error(logging.CategoryFSEvents, "watch error", "error", err)
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) record(event fsnotify.Event) {
	eventType, ok := translateOp(event.Op)
	if !ok {
		return
	}

	if eventType == gap.EventCreate {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() && w.config.Recursive {
			if err := w.watcher.Add(event.Name); err != nil {
				logging.Warn(logging.CategoryFSEvents, "failed to watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}

	w.mu.Lock()
	w.debounceMap[event.Name] = pendingEvent{eventType: eventType, at: time.Now()}
	w.mu.Unlock()
}

func translateOp(op fsnotify.Op) (gap.EventType, bool) {
	switch {
	case op&fsnotify.Create != 0:
		return gap.EventCreate, true
	case op&fsnotify.Write != 0:
		return gap.EventWrite, true
	case op&fsnotify.Remove != 0:
		return gap.EventRemove, true
	case op&fsnotify.Rename != 0:
		return gap.EventRename, true
	default:
		return "", false
	}
}

func (w *Watcher) flush(ctx context.Context) {
	now := time.Now()

	w.mu.Lock()
	var settled []string
	for path, pending := range w.debounceMap {
		if now.Sub(pending.at) >= w.config.DebounceFor {
			settled = append(settled, path)
		}
	}
	events := make(map[string]pendingEvent, len(settled))
	for _, path := range settled {
		events[path] = w.debounceMap[path]
		delete(w.debounceMap, path)
	}
	w.mu.Unlock()

	for path, pending := range events {
		fileEvent := gap.FileEvent{
			Path:                  path,
			EventType:             pending.eventType,
			Timestamp:             pending.at,
			ShouldTriggerAnalysis: shouldTriggerAnalysis(path, pending.eventType),
		}
		if err := w.handler(ctx, fileEvent); err != nil {
			logging.Warn(logging.CategoryFSEvents, "handler returned error", "path", path, "error", err)
		}
	}
}

// shouldTriggerAnalysis drops removals (nothing left to scan) and hidden
// files, in place of the mangle watcher's single-filetype suffix gate. It
// does not check the extension; the scheduler and analyzer filter that.
func shouldTriggerAnalysis(path string, eventType gap.EventType) bool {
	if eventType == gap.EventRemove {
		return false
	}
	base := filepath.Base(path)
	return !strings.HasPrefix(base, ".")
}
