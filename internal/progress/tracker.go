package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Config controls the tracker's retained history and event buffering.
type Config struct {
	MaxProgressHistory int
	EventBufferSize    int
}

// DefaultConfig matches the spec's defaults.
func DefaultConfig() Config {
	return Config{MaxProgressHistory: 100, EventBufferSize: 1000}
}

// historyEntry is a terminal task's retained snapshot.
type historyEntry struct {
	progress TaskProgress
	endedAt  time.Time
}

// Tracker owns all live task progress, single-writer behind a mutex, per
// the Design Notes' "single-owner actor style" guidance.
type Tracker struct {
	config Config
	hub    *hub

	mu      sync.RWMutex
	running bool
	active  map[string]*TaskProgress
	history []historyEntry
}

// New builds a Tracker; call Start before using it.
func New(config Config) *Tracker {
	return &Tracker{
		config: config,
		hub:    newHub(config.EventBufferSize),
		active: map[string]*TaskProgress{},
	}
}

// Start marks the tracker running. Unlike the Scheduler's Start, this is
// silently idempotent — calling it twice is not an error, matching the
// source's distinct (looser) lifecycle contract for the tracker.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = true
}

// Stop marks the tracker not-running; idempotent.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
}

// Subscribe returns a channel of progress events and an unsubscribe func.
func (t *Tracker) Subscribe() (<-chan Event, func()) {
	return t.hub.subscribe()
}

// StartTask creates an empty progress record and emits TaskStarted.
func (t *Tracker) StartTask(taskID string) error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return ErrNotInitialized
	}
	now := time.Now()
	t.active[taskID] = NewTaskProgress(taskID, now)
	t.mu.Unlock()

	t.hub.publish(Event{Type: EventTaskStarted, TaskID: taskID, Timestamp: now})
	return nil
}

// AddStep appends a new step to taskID's progress and emits StepStarted.
func (t *Tracker) AddStep(taskID, stepName, description string, targetPercent float64) (string, error) {
	t.mu.Lock()
	prog, ok := t.active[taskID]
	if !ok {
		t.mu.Unlock()
		return "", ErrTaskNotFound
	}
	now := time.Now()
	stepID := uuid.NewString()
	step := NewStep(stepID, taskID, stepName, description, targetPercent, now)
	prog.AddStep(step, now)
	t.mu.Unlock()

	t.hub.publish(Event{Type: EventStepStarted, TaskID: taskID, StepID: stepID, StepName: stepName, Timestamp: now})
	return stepID, nil
}

// UpdateStepProgress sets a leaf step's percent and re-derives overall
// progress, emitting StepProgress.
func (t *Tracker) UpdateStepProgress(taskID, stepID string, percent float64) error {
	t.mu.Lock()
	prog, ok := t.active[taskID]
	if !ok {
		t.mu.Unlock()
		return ErrTaskNotFound
	}
	idx := prog.StepIndex(stepID)
	if idx < 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: step %s not found on task %s", ErrInvalidProgressUpdate, stepID, taskID)
	}
	now := time.Now()
	prog.Steps[idx].ProgressPercent = percent
	prog.updateOverallProgress(now)
	t.mu.Unlock()

	t.hub.publish(Event{Type: EventStepProgress, TaskID: taskID, StepID: stepID, ProgressPercent: percent, Timestamp: now})
	return nil
}

// CompleteStep marks a step completed, emits StepCompleted(duration), and
// recomputes the task's ETA.
func (t *Tracker) CompleteStep(taskID, stepID string) error {
	t.mu.Lock()
	prog, ok := t.active[taskID]
	if !ok {
		t.mu.Unlock()
		return ErrTaskNotFound
	}
	idx := prog.StepIndex(stepID)
	if idx < 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: step %s not found on task %s", ErrInvalidProgressUpdate, stepID, taskID)
	}
	now := time.Now()
	duration := prog.Steps[idx].Duration(now)
	prog.Steps[idx].Complete(now)
	prog.updateOverallProgress(now)
	prog.EstimateCompletion(now)
	t.mu.Unlock()

	t.hub.publish(Event{Type: EventStepCompleted, TaskID: taskID, StepID: stepID, Duration: duration, Timestamp: now})
	return nil
}

// FailStep records a step failure and emits StepFailed.
func (t *Tracker) FailStep(taskID, stepID, reason string) error {
	t.mu.Lock()
	prog, ok := t.active[taskID]
	if !ok {
		t.mu.Unlock()
		return ErrTaskNotFound
	}
	idx := prog.StepIndex(stepID)
	if idx < 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: step %s not found on task %s", ErrInvalidProgressUpdate, stepID, taskID)
	}
	now := time.Now()
	prog.Steps[idx].Fail(reason, now)
	prog.updateOverallProgress(now)
	t.mu.Unlock()

	t.hub.publish(Event{Type: EventStepFailed, TaskID: taskID, StepID: stepID, Error: reason, Timestamp: now})
	return nil
}

// CompleteTask removes taskID's live record, retains it in bounded
// history, and emits TaskCompleted with the elapsed time since start.
//
// The original source computes this duration backwards
// (started_at.signed_duration_since(now)); that is a bug, not intent, so
// this implementation uses now-started_at like every other duration in
// this package.
func (t *Tracker) CompleteTask(taskID string) error {
	t.mu.Lock()
	prog, ok := t.active[taskID]
	if !ok {
		t.mu.Unlock()
		return ErrTaskNotFound
	}
	now := time.Now()
	totalDuration := now.Sub(prog.StartedAt)
	delete(t.active, taskID)
	t.appendHistoryLocked(*prog, now)
	t.mu.Unlock()

	t.hub.publish(Event{Type: EventTaskCompleted, TaskID: taskID, TotalDuration: totalDuration, Timestamp: now})
	return nil
}

// FailTask removes taskID's live record and emits TaskFailed.
func (t *Tracker) FailTask(taskID, reason string) error {
	t.mu.Lock()
	prog, ok := t.active[taskID]
	if !ok {
		t.mu.Unlock()
		return ErrTaskNotFound
	}
	now := time.Now()
	delete(t.active, taskID)
	t.appendHistoryLocked(*prog, now)
	t.mu.Unlock()

	t.hub.publish(Event{Type: EventTaskFailed, TaskID: taskID, Error: reason, Timestamp: now})
	return nil
}

func (t *Tracker) appendHistoryLocked(prog TaskProgress, now time.Time) {
	t.history = append(t.history, historyEntry{progress: prog, endedAt: now})
	if len(t.history) > t.config.MaxProgressHistory {
		t.history = t.history[len(t.history)-t.config.MaxProgressHistory:]
	}
}

// GetTaskProgress returns a copy of taskID's live progress.
func (t *Tracker) GetTaskProgress(taskID string) (TaskProgress, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	prog, ok := t.active[taskID]
	if !ok {
		return TaskProgress{}, ErrTaskNotFound
	}
	return *prog, nil
}

// GetAllActiveProgress returns copies of every live task's progress.
func (t *Tracker) GetAllActiveProgress() map[string]TaskProgress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]TaskProgress, len(t.active))
	for id, prog := range t.active {
		out[id] = *prog
	}
	return out
}

// History returns retained terminal progress snapshots, oldest first.
func (t *Tracker) History() []TaskProgress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]TaskProgress, len(t.history))
	for i, h := range t.history {
		out[i] = h.progress
	}
	return out
}
