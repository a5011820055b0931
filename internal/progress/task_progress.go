package progress

import "time"

// TaskProgress is the step graph and derived metrics for one research task.
type TaskProgress struct {
	TaskID                 string
	CurrentStage           string
	OverallProgressPercent float64
	StartedAt              time.Time
	LastUpdate             time.Time
	EstimatedCompletion    *time.Time
	Steps                  []Step
	CurrentStepIndex       *int
	PerformanceMetrics     PerformanceMetrics
	Metadata               map[string]string
}

// NewTaskProgress creates an empty progress record starting now.
func NewTaskProgress(taskID string, now time.Time) *TaskProgress {
	return &TaskProgress{
		TaskID:     taskID,
		StartedAt:  now,
		LastUpdate: now,
		Metadata:   map[string]string{},
	}
}

// AddStep appends a step and recomputes overall progress.
func (t *TaskProgress) AddStep(step Step, now time.Time) {
	t.Steps = append(t.Steps, step)
	idx := len(t.Steps) - 1
	t.CurrentStepIndex = &idx
	t.CurrentStage = step.StepName
	t.updateOverallProgress(now)
}

// StepIndex finds a step by id, or -1.
func (t *TaskProgress) StepIndex(stepID string) int {
	for i, s := range t.Steps {
		if s.StepID == stepID {
			return i
		}
	}
	return -1
}

// updateOverallProgress sets overall_progress_percent to the plain
// arithmetic mean of all step percents, per the Data Model's invariant.
func (t *TaskProgress) updateOverallProgress(now time.Time) {
	if len(t.Steps) == 0 {
		t.OverallProgressPercent = 0
	} else {
		sum := 0.0
		for _, s := range t.Steps {
			sum += s.ProgressPercent
		}
		t.OverallProgressPercent = sum / float64(len(t.Steps))
	}
	t.LastUpdate = now
	t.PerformanceMetrics.update(t.Steps, now)
}

// EstimateCompletion recomputes estimated_completion from
// avg_step_duration * remaining_steps, left nil until at least one step
// has completed.
func (t *TaskProgress) EstimateCompletion(now time.Time) {
	if t.PerformanceMetrics.AverageStepDuration == nil {
		return
	}
	remaining := t.TotalSteps() - t.PerformanceMetrics.CompletedSteps
	if remaining < 0 {
		remaining = 0
	}
	eta := now.Add(*t.PerformanceMetrics.AverageStepDuration * time.Duration(remaining))
	t.EstimatedCompletion = &eta
}

// TotalSteps is the number of steps added so far.
func (t *TaskProgress) TotalSteps() int { return len(t.Steps) }
