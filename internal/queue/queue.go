// Package queue implements the priority-ordered, fingerprint-deduplicated
// task queue consumed by the executor: Critical tasks dequeue before High,
// High before Medium, Medium before Low, and FIFO by created_at within a
// priority tier.
package queue

import (
	"container/heap"
	"sync"

	"fortitude/internal/research"
)

// Stats reports counts by priority and by state, per peek_stats.
type Stats struct {
	ByPriority map[research.TaskPriority]int
	ByState    map[research.TaskState]int
}

// Queue is a single-owner, mutex-guarded priority heap.
type Queue struct {
	mu         sync.Mutex
	heap       taskHeap
	byID       map[string]*heapItem
	fingerprints map[string]string // fingerprint -> task id, present while Pending or Running
	maxSize    int
}

// New builds an empty Queue bounded at maxSize live (Pending+Running) tasks.
func New(maxSize int) *Queue {
	return &Queue{
		byID:         map[string]*heapItem{},
		fingerprints: map[string]string{},
		maxSize:      maxSize,
	}
}

// Enqueue inserts task, returning ErrDuplicate if its fingerprint is
// already Pending or Running, or ErrQueueFull if the live-task bound would
// be exceeded.
func (q *Queue) Enqueue(task research.ResearchTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.fingerprints[task.Fingerprint]; exists {
		return ErrDuplicate
	}
	if q.liveCountLocked() >= q.maxSize {
		return ErrQueueFull
	}

	item := &heapItem{task: task}
	heap.Push(&q.heap, item)
	q.byID[task.ID] = item
	q.fingerprints[task.Fingerprint] = task.ID
	return nil
}

// Dequeue removes and returns the highest-priority, oldest Pending task.
// ok is false if the queue has no Pending tasks.
func (q *Queue) Dequeue() (research.ResearchTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.heap.Len() > 0 {
		item := heap.Pop(&q.heap).(*heapItem)
		if item.task.State != research.TaskPending {
			continue
		}
		item.task.State = research.TaskRunning
		q.byID[item.task.ID] = item
		return item.task, true
	}
	return research.ResearchTask{}, false
}

// Cancel marks taskID Cancelled. If Pending it is removed from the heap's
// consideration (its state flips so Dequeue skips it). If Running, only
// the queue's record changes and its fingerprint is freed; the executor is
// not notified and stops a running task only through Executor.Cancel.
func (q *Queue) Cancel(taskID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.byID[taskID]
	if !ok {
		return false
	}
	item.task.State = research.TaskCancelled
	delete(q.fingerprints, item.task.Fingerprint)
	return true
}

// CancelAllPending cancels every currently Pending task, returning how many
// were cancelled. Running tasks are left untouched; the executor observes
// cancellation on its own taskID-scoped flag between steps.
func (q *Queue) CancelAllPending() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, item := range q.byID {
		if item.task.State != research.TaskPending {
			continue
		}
		item.task.State = research.TaskCancelled
		delete(q.fingerprints, item.task.Fingerprint)
		n++
	}
	return n
}

// Complete transitions taskID out of the live set (Completed or Failed),
// freeing its fingerprint for future dedup.
func (q *Queue) Complete(taskID string, state research.TaskState) {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.byID[taskID]
	if !ok {
		return
	}
	item.task.State = state
	delete(q.fingerprints, item.task.Fingerprint)
	delete(q.byID, taskID)
}

// Requeue reinserts a task for retry, keeping its fingerprint registered.
func (q *Queue) Requeue(task research.ResearchTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	task.State = research.TaskPending
	item := &heapItem{task: task}
	heap.Push(&q.heap, item)
	q.byID[task.ID] = item
	q.fingerprints[task.Fingerprint] = task.ID
	return nil
}

// Len returns the number of live (Pending+Running) tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.liveCountLocked()
}

func (q *Queue) liveCountLocked() int {
	n := 0
	for _, item := range q.byID {
		if item.task.State == research.TaskPending || item.task.State == research.TaskRunning {
			n++
		}
	}
	return n
}

// PeekStats reports live counts by priority and by state.
func (q *Queue) PeekStats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	stats := Stats{ByPriority: map[research.TaskPriority]int{}, ByState: map[research.TaskState]int{}}
	for _, item := range q.byID {
		stats.ByState[item.task.State]++
		if item.task.State == research.TaskPending || item.task.State == research.TaskRunning {
			stats.ByPriority[item.task.Priority]++
		}
	}
	return stats
}

type heapItem struct {
	task  research.ResearchTask
	index int
}

type taskHeap []*heapItem

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].task.Priority != h[j].task.Priority {
		return h[i].task.Priority > h[j].task.Priority // Critical (highest enum value) first
	}
	return h[i].task.CreatedAt.Before(h[j].task.CreatedAt)
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x interface{}) {
	item := x.(*heapItem)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
