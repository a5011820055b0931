package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fortitude/internal/research"
)

func task(priority research.TaskPriority, fingerprint string, createdAt time.Time) research.ResearchTask {
	return research.ResearchTask{
		ID:          fingerprint + "-" + createdAt.String(),
		Fingerprint: fingerprint,
		Priority:    priority,
		CreatedAt:   createdAt,
		State:       research.TaskPending,
	}
}

func TestEnqueueDuplicateFingerprintIsNoOp(t *testing.T) {
	q := New(10)
	t0 := time.Now()
	a := task(research.PriorityLow, "fp1", t0)
	b := task(research.PriorityHigh, "fp1", t0.Add(time.Second))

	require.NoError(t, q.Enqueue(a))
	err := q.Enqueue(b)
	require.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, q.Len())
}

func TestDequeueStrictPriorityOrdering(t *testing.T) {
	q := New(10)
	t0 := time.Now()
	low := task(research.PriorityLow, "fp-low", t0)
	critical := task(research.PriorityCritical, "fp-critical", t0.Add(time.Second))

	require.NoError(t, q.Enqueue(low))
	require.NoError(t, q.Enqueue(critical))

	first, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, "fp-critical", first.Fingerprint)

	second, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, "fp-low", second.Fingerprint)
}

func TestEnqueueReturnsQueueFullAtBound(t *testing.T) {
	q := New(1)
	t0 := time.Now()
	require.NoError(t, q.Enqueue(task(research.PriorityLow, "fp1", t0)))

	err := q.Enqueue(task(research.PriorityLow, "fp2", t0.Add(time.Second)))
	require.ErrorIs(t, err, ErrQueueFull)
}

func TestCompleteFreesFingerprintForReuse(t *testing.T) {
	q := New(10)
	t0 := time.Now()
	first := task(research.PriorityLow, "fp1", t0)
	require.NoError(t, q.Enqueue(first))

	dequeued, ok := q.Dequeue()
	require.True(t, ok)
	q.Complete(dequeued.ID, research.TaskCompleted)

	second := task(research.PriorityLow, "fp1", t0.Add(time.Minute))
	second.ID = "different-id"
	require.NoError(t, q.Enqueue(second))
}

func TestCancelRemovesPendingTaskFromDequeueConsideration(t *testing.T) {
	q := New(10)
	t0 := time.Now()
	first := task(research.PriorityLow, "fp1", t0)
	require.NoError(t, q.Enqueue(first))

	assert.True(t, q.Cancel(first.ID))

	_, ok := q.Dequeue()
	assert.False(t, ok)

	stats := q.PeekStats()
	assert.Equal(t, 1, stats.ByState[research.TaskCancelled])
	assert.Equal(t, 0, stats.ByState[research.TaskPending])
}

func TestCancelUnknownTaskIDReturnsFalse(t *testing.T) {
	q := New(10)
	assert.False(t, q.Cancel("no-such-id"))
}

func TestCancelFreesFingerprintForReuse(t *testing.T) {
	q := New(10)
	t0 := time.Now()
	first := task(research.PriorityLow, "fp1", t0)
	require.NoError(t, q.Enqueue(first))
	require.True(t, q.Cancel(first.ID))

	second := task(research.PriorityLow, "fp1", t0.Add(time.Minute))
	second.ID = "different-id"
	require.NoError(t, q.Enqueue(second))
}

func TestCancelAllPendingCancelsOnlyPendingTasks(t *testing.T) {
	q := New(10)
	t0 := time.Now()
	require.NoError(t, q.Enqueue(task(research.PriorityHigh, "fp1", t0)))
	require.NoError(t, q.Enqueue(task(research.PriorityLow, "fp2", t0.Add(time.Second))))

	running, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, research.TaskRunning, running.State)

	n := q.CancelAllPending()
	assert.Equal(t, 1, n)

	stats := q.PeekStats()
	assert.Equal(t, 1, stats.ByState[research.TaskCancelled])
	assert.Equal(t, 1, stats.ByState[research.TaskRunning])
}

func TestPeekStatsCountsByPriorityAndState(t *testing.T) {
	q := New(10)
	t0 := time.Now()
	require.NoError(t, q.Enqueue(task(research.PriorityHigh, "fp1", t0)))
	require.NoError(t, q.Enqueue(task(research.PriorityLow, "fp2", t0.Add(time.Second))))

	stats := q.PeekStats()
	assert.Equal(t, 1, stats.ByPriority[research.PriorityHigh])
	assert.Equal(t, 1, stats.ByPriority[research.PriorityLow])
	assert.Equal(t, 2, stats.ByState[research.TaskPending])
}
