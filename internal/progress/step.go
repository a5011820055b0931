// Package progress implements the Progress Tracker: per-task step
// lifecycle, event broadcast, and performance metrics, grounded on the
// proactive progress tracker.
package progress

import "time"

// ErrorInfo records why a step failed.
type ErrorInfo struct {
	Message   string
	Timestamp time.Time
}

// Step is one named sub-unit of a research task.
type Step struct {
	StepID          string
	TaskID          string
	StepName        string
	Description     string
	StartedAt       time.Time
	CompletedAt     *time.Time
	ProgressPercent float64
	Metadata        map[string]string
	ErrorInfo       *ErrorInfo
}

// NewStep creates a step that has just started, at the given initial
// progress percent.
func NewStep(stepID, taskID, name, description string, progressPercent float64, now time.Time) Step {
	return Step{
		StepID:          stepID,
		TaskID:          taskID,
		StepName:        name,
		Description:     description,
		StartedAt:       now,
		ProgressPercent: progressPercent,
		Metadata:        map[string]string{},
	}
}

// Complete marks the step finished at now, at 100%.
func (s *Step) Complete(now time.Time) {
	s.CompletedAt = &now
	s.ProgressPercent = 100
}

// Fail records a failure reason without completing the step.
func (s *Step) Fail(reason string, now time.Time) {
	s.ErrorInfo = &ErrorInfo{Message: reason, Timestamp: now}
}

// Duration returns completed_at-started_at if finished, else now-started_at.
func (s Step) Duration(now time.Time) time.Duration {
	if s.CompletedAt != nil {
		if d := s.CompletedAt.Sub(s.StartedAt); d >= 0 {
			return d
		}
		return 0
	}
	if d := now.Sub(s.StartedAt); d >= 0 {
		return d
	}
	return 0
}
