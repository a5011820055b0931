// Package persistence snapshots and reloads the scheduler's durable state
// file, grounded on the original's scheduler_persistence_file convention
// (fortitude/src/proactive/scheduler.rs) but using plain encoding/json in
// place of serde_json, per the teacher's ambient stdlib-JSON idiom
// elsewhere in its config/state files.
package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// SchedulerState is the periodic snapshot persisted to disk: scheduled
// jobs, metrics, and last-operation timestamps. Schema fields are
// additive; unknown fields in an on-disk file are ignored on reload.
type SchedulerState struct {
	ScheduledJobs  []ScheduledJobSnapshot `json:"scheduled_jobs"`
	Metrics        json.RawMessage        `json:"metrics"`
	LastOperations map[string]int64       `json:"last_operations"`
}

// ScheduledJobSnapshot is the persisted shape of one scheduled job.
type ScheduledJobSnapshot struct {
	ID       string `json:"id"`
	JobType  string `json:"job_type"`
	Priority string `json:"priority"`
	GapType  string `json:"gap_type,omitempty"`
	Interval int64  `json:"interval_ms"`
	NextRun  int64  `json:"next_run_unix_ms"`
	Enabled  bool   `json:"enabled"`
}

// Save writes state to path as JSON, creating parent directories as
// needed and overwriting any existing file.
func Save(path string, state SchedulerState) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads state from path. If the file does not exist, it returns a
// zero-value state and a nil error, matching "reloaded at startup if
// present" from the spec.
func Load(path string) (SchedulerState, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return SchedulerState{}, nil
	}
	if err != nil {
		return SchedulerState{}, err
	}
	var state SchedulerState
	if err := json.Unmarshal(data, &state); err != nil {
		return SchedulerState{}, err
	}
	return state, nil
}
