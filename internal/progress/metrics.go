package progress

import "time"

// PerformanceMetrics summarizes a task's step history.
type PerformanceMetrics struct {
	TotalSteps              int
	CompletedSteps          int
	FailedSteps             int
	AverageStepDuration     *time.Duration
	FastestStepDuration     *time.Duration
	SlowestStepDuration     *time.Duration
	ThroughputStepsPerMinute float64
	LastUpdated             time.Time
}

// update recomputes counts and durations from the current steps,
// grounded on the original's update_metrics: throughput is only
// recalculated when at least a minute has elapsed between the first and
// last completed step, otherwise the previous value is retained.
func (m *PerformanceMetrics) update(steps []Step, now time.Time) {
	m.TotalSteps = len(steps)
	m.CompletedSteps = 0
	m.FailedSteps = 0

	var durations []time.Duration
	var firstCompletion, lastCompletion *time.Time

	for _, s := range steps {
		if s.ErrorInfo != nil {
			m.FailedSteps++
		}
		if s.CompletedAt != nil {
			m.CompletedSteps++
			durations = append(durations, s.Duration(now))
			if firstCompletion == nil || s.CompletedAt.Before(*firstCompletion) {
				firstCompletion = s.CompletedAt
			}
			if lastCompletion == nil || s.CompletedAt.After(*lastCompletion) {
				lastCompletion = s.CompletedAt
			}
		}
	}

	if len(durations) > 0 {
		var sum, fastest, slowest time.Duration
		fastest = durations[0]
		slowest = durations[0]
		for _, d := range durations {
			sum += d
			if d < fastest {
				fastest = d
			}
			if d > slowest {
				slowest = d
			}
		}
		avg := sum / time.Duration(len(durations))
		m.AverageStepDuration = &avg
		m.FastestStepDuration = &fastest
		m.SlowestStepDuration = &slowest
	}

	if firstCompletion != nil && lastCompletion != nil {
		totalMinutes := lastCompletion.Sub(*firstCompletion).Minutes()
		if totalMinutes >= 1 {
			m.ThroughputStepsPerMinute = float64(m.CompletedSteps) / totalMinutes
		}
	}

	m.LastUpdated = now
}
