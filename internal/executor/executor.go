// Package executor implements the concurrency-limited worker pool that
// dequeues ResearchTasks, drives them through fixed progress steps, and
// invokes the external Provider, grounded on spec.md §4.4 and the
// teacher's worker-pool/supervise idiom (internal/shards).
package executor

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fortitude/internal/logging"
	"fortitude/internal/monitoring"
	"fortitude/internal/progress"
	"fortitude/internal/provider"
	"fortitude/internal/queue"
	"fortitude/internal/research"
)

// Config controls worker concurrency and retry policy.
type Config struct {
	MaxConcurrentTasks int
	MaxRetries         int
	RetryDelay         time.Duration
	ProviderTimeout    time.Duration
	Jitter             bool
}

// DefaultConfig matches spec.md's defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentTasks: 4,
		MaxRetries:         3,
		RetryDelay:         time.Second,
		ProviderTimeout:    10 * time.Second,
		Jitter:             true,
	}
}

// stepPlan lists the fixed top-level steps every task passes through, with
// their target progress percents.
var stepPlan = []struct {
	name    string
	percent float64
}{
	{"classify", 25},
	{"retrieve_context", 50},
	{"query_provider", 75},
	{"post_process", 100},
}

// Executor dequeues tasks from a queue.Queue and dispatches them to a
// bounded pool of workers invoking a provider.Provider.
type Executor struct {
	config   Config
	queue    *queue.Queue
	tracker  *progress.Tracker
	provider provider.Provider

	mu         sync.Mutex
	cancelled  map[string]bool
	recorder   *monitoring.Recorder
}

// New builds an Executor wired to its collaborators.
func New(cfg Config, q *queue.Queue, tracker *progress.Tracker, p provider.Provider) *Executor {
	return &Executor{config: cfg, queue: q, tracker: tracker, provider: p, cancelled: map[string]bool{}}
}

// WithRecorder attaches a monitoring.Recorder that observes every
// provider call's latency and outcome. Optional; nil-safe if never called.
func (e *Executor) WithRecorder(r *monitoring.Recorder) *Executor {
	e.recorder = r
	return e
}

// Cancel sets the cooperative cancellation flag for taskID, observed by
// the worker between steps and before provider calls.
func (e *Executor) Cancel(taskID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelled[taskID] = true
}

func (e *Executor) isCancelled(taskID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancelled[taskID]
}

func (e *Executor) clearCancelled(taskID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.cancelled, taskID)
}

// Run starts MaxConcurrentTasks workers, each pulling from the queue until
// ctx is cancelled.
func (e *Executor) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.config.MaxConcurrentTasks; i++ {
		g.Go(func() error {
			return e.workerLoop(ctx)
		})
	}
	return g.Wait()
}

func (e *Executor) workerLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		task, ok := e.queue.Dequeue()
		if !ok {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(50 * time.Millisecond):
				continue
			}
		}
		e.runTask(ctx, task)
	}
}

func (e *Executor) runTask(ctx context.Context, task research.ResearchTask) {
	if err := e.tracker.StartTask(task.ID); err != nil {
		logging.Error(logging.CategoryExecutor, "start task failed", "task_id", task.ID, "error", err.Error())
	}
	defer e.clearCancelled(task.ID)

	query := task.SourceGap.Gap.Description
	var response string
	var err error

	for _, step := range stepPlan {
		if e.isCancelled(task.ID) {
			e.queue.Complete(task.ID, research.TaskCancelled)
			_ = e.tracker.FailTask(task.ID, "cancelled")
			return
		}

		stepID, addErr := e.tracker.AddStep(task.ID, step.name, step.name, step.percent)
		if addErr != nil {
			logging.Error(logging.CategoryExecutor, "add step failed", "task_id", task.ID, "error", addErr.Error())
			continue
		}

		switch step.name {
		case "query_provider":
			response, err = e.callProvider(ctx, query)
			if err != nil {
				e.handleProviderFailure(task, stepID, err)
				return
			}
		default:
			// classify/retrieve_context/post_process are bookkeeping steps
			// around the single external call; they complete immediately.
		}

		if completeErr := e.tracker.CompleteStep(task.ID, stepID); completeErr != nil {
			logging.Error(logging.CategoryExecutor, "complete step failed", "task_id", task.ID, "error", completeErr.Error())
		}
	}

	_ = response
	e.queue.Complete(task.ID, research.TaskCompleted)
	if err := e.tracker.CompleteTask(task.ID); err != nil {
		logging.Error(logging.CategoryExecutor, "complete task failed", "task_id", task.ID, "error", err.Error())
	}
}

func (e *Executor) callProvider(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.ProviderTimeout)
	defer cancel()

	start := time.Now()
	response, err := e.provider.ResearchQuery(ctx, query)
	if e.recorder != nil {
		e.recorder.RecordOperation(time.Since(start), err == nil, nil)
	}
	return response, err
}

// handleProviderFailure retries with exponential backoff up to
// MaxRetries, else transitions the task to Failed and emits TaskFailed.
func (e *Executor) handleProviderFailure(task research.ResearchTask, stepID string, providerErr error) {
	_ = e.tracker.FailStep(task.ID, stepID, providerErr.Error())

	task.Attempts++
	if task.Attempts <= e.config.MaxRetries {
		delay := e.backoffDelay(task.Attempts)
		logging.Warn(logging.CategoryExecutor, "retrying task", "task_id", task.ID, "attempt", task.Attempts, "delay_ms", delay.Milliseconds())
		time.Sleep(delay)
		task.State = research.TaskPending
		if err := e.queue.Requeue(task); err != nil {
			logging.Error(logging.CategoryExecutor, "requeue failed", "task_id", task.ID, "error", err.Error())
		}
		return
	}

	e.queue.Complete(task.ID, research.TaskFailed)
	if err := e.tracker.FailTask(task.ID, providerErr.Error()); err != nil {
		logging.Error(logging.CategoryExecutor, "fail task failed", "task_id", task.ID, "error", err.Error())
	}
}

// backoffDelay computes base*2^(attempt-1), optionally jittered.
func (e *Executor) backoffDelay(attempt int) time.Duration {
	delay := e.config.RetryDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	if e.config.Jitter {
		jitter := time.Duration(rand.Int63n(int64(delay) / 4 + 1))
		delay += jitter
	}
	return delay
}
