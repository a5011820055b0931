package fsevents

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"fortitude/internal/gap"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []gap.FileEvent
}

func (r *recordingHandler) handle(ctx context.Context, event gap.FileEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingHandler) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestWatcherEmitsWriteEventAfterDebounce(t *testing.T) {
	dir := t.TempDir()
	rec := &recordingHandler{}

	cfg := DefaultConfig()
	cfg.DebounceFor = 30 * time.Millisecond

	w, err := New(cfg, rec.handle)
	require.NoError(t, err)
	require.NoError(t, w.AddRoot(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))

	require.Eventually(t, func() bool {
		return rec.count() > 0
	}, time.Second, 5*time.Millisecond)
}

func TestShouldTriggerAnalysisSkipsRemovalsAndHiddenFiles(t *testing.T) {
	assert.False(t, shouldTriggerAnalysis("/tmp/foo.go", gap.EventRemove))
	assert.False(t, shouldTriggerAnalysis("/tmp/.hidden.go", gap.EventWrite))
	assert.True(t, shouldTriggerAnalysis("/tmp/foo.go", gap.EventWrite))
}

func TestTranslateOpMapsFsnotifyOpsToEventTypes(t *testing.T) {
	for op, want := range map[fsnotify.Op]gap.EventType{
		fsnotify.Create: gap.EventCreate,
		fsnotify.Write:  gap.EventWrite,
		fsnotify.Remove: gap.EventRemove,
		fsnotify.Rename: gap.EventRename,
	} {
		got, ok := translateOp(op)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := translateOp(0)
	assert.False(t, ok)
}
