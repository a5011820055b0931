package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartTaskFailsBeforeStart(t *testing.T) {
	tr := New(DefaultConfig())
	err := tr.StartTask("task-1")
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestFullTaskLifecycle(t *testing.T) {
	tr := New(DefaultConfig())
	tr.Start()

	require.NoError(t, tr.StartTask("task-1"))

	step1, err := tr.AddStep("task-1", "classify", "classify the gap", 25)
	require.NoError(t, err)
	step2, err := tr.AddStep("task-1", "query_provider", "ask the provider", 75)
	require.NoError(t, err)

	require.NoError(t, tr.UpdateStepProgress("task-1", step1, 50))
	require.NoError(t, tr.CompleteStep("task-1", step1))
	require.NoError(t, tr.CompleteStep("task-1", step2))

	prog, err := tr.GetTaskProgress("task-1")
	require.NoError(t, err)
	assert.Len(t, prog.Steps, 2)
	assert.InDelta(t, 100, prog.OverallProgressPercent, 1e-6)
	require.NotNil(t, prog.Steps[0].CompletedAt)

	require.NoError(t, tr.CompleteTask("task-1"))
	_, err = tr.GetTaskProgress("task-1")
	require.ErrorIs(t, err, ErrTaskNotFound)

	history := tr.History()
	require.Len(t, history, 1)
	assert.Equal(t, "task-1", history[0].TaskID)
}

func TestOverallProgressIsArithmeticMean(t *testing.T) {
	tr := New(DefaultConfig())
	tr.Start()
	require.NoError(t, tr.StartTask("task-1"))

	s1, _ := tr.AddStep("task-1", "a", "", 0)
	s2, _ := tr.AddStep("task-1", "b", "", 0)
	require.NoError(t, tr.UpdateStepProgress("task-1", s1, 40))
	require.NoError(t, tr.UpdateStepProgress("task-1", s2, 60))

	prog, err := tr.GetTaskProgress("task-1")
	require.NoError(t, err)
	assert.InDelta(t, 50.0, prog.OverallProgressPercent, 1e-6)
}

func TestUpdateStepProgressUnknownStepReturnsInvalidUpdate(t *testing.T) {
	tr := New(DefaultConfig())
	tr.Start()
	require.NoError(t, tr.StartTask("task-1"))

	err := tr.UpdateStepProgress("task-1", "no-such-step", 10)
	require.ErrorIs(t, err, ErrInvalidProgressUpdate)
}

func TestSubscribeReceivesEventsInCausalOrderPerTask(t *testing.T) {
	tr := New(DefaultConfig())
	tr.Start()

	events, unsubscribe := tr.Subscribe()
	defer unsubscribe()

	require.NoError(t, tr.StartTask("task-1"))
	stepID, err := tr.AddStep("task-1", "step", "", 100)
	require.NoError(t, err)
	require.NoError(t, tr.CompleteStep("task-1", stepID))
	require.NoError(t, tr.CompleteTask("task-1"))

	var seen []EventType
	timeout := time.After(time.Second)
	for len(seen) < 4 {
		select {
		case e := <-events:
			seen = append(seen, e.Type)
		case <-timeout:
			t.Fatalf("timed out waiting for events, got %v", seen)
		}
	}

	assert.Equal(t, []EventType{EventTaskStarted, EventStepStarted, EventStepCompleted, EventTaskCompleted}, seen)
}

func TestHistoryBoundedByMaxProgressHistory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxProgressHistory = 2
	tr := New(cfg)
	tr.Start()

	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		require.NoError(t, tr.StartTask(id))
		require.NoError(t, tr.CompleteTask(id))
	}

	assert.Len(t, tr.History(), 2)
}
