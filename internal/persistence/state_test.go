package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsZeroState(t *testing.T) {
	state, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Empty(t, state.ScheduledJobs)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scheduler_state.json")
	metrics := []byte(`{"total_scheduling_cycles":7,"gaps_processed":3,"tasks_queued":2}`)
	state := SchedulerState{
		ScheduledJobs: []ScheduledJobSnapshot{
			{ID: "job-1", JobType: "PriorityBasedAnalysis", Priority: "High", Interval: 300000, Enabled: true},
		},
		Metrics:        metrics,
		LastOperations: map[string]int64{"gap_scan": 1700000000000},
	}

	require.NoError(t, Save(path, state))
	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.ScheduledJobs, 1)
	assert.Equal(t, "job-1", loaded.ScheduledJobs[0].ID)
	assert.Equal(t, int64(1700000000000), loaded.LastOperations["gap_scan"])
	assert.JSONEq(t, string(metrics), string(loaded.Metrics))
}

func TestLoadIgnoresUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheduler_state.json")
	raw := []byte(`{"scheduled_jobs":[],"metrics":{},"last_operations":{},"future_field":"ignored"}`)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	state, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, state.ScheduledJobs)
}
