package config

import (
	"fmt"
	"time"

	"fortitude/internal/research"
	"fortitude/internal/scheduler"
)

// SchedulerConfig mirrors scheduler.Config with YAML tags; duration maps
// are keyed by the priority/gap-type's string name since YAML has no
// native support for typed-int or custom-string map keys round-tripping
// cleanly through yaml.v3.
type SchedulerConfig struct {
	GapAnalysisIntervalMS  int64            `yaml:"gap_analysis_interval_ms"`
	TimeBasedIntervalsMS   map[string]int64 `yaml:"time_based_intervals_ms"`
	GapTypeIntervalsMS     map[string]int64 `yaml:"gap_type_intervals_ms"`
	MaxConcurrentSchedules int              `yaml:"max_concurrent_schedules"`
	MaxCPUPercent          float64          `yaml:"max_cpu_percent"`
	MaxMemoryPercent       float64          `yaml:"max_memory_percent"`
	EnableEventDriven      bool             `yaml:"enable_event_driven"`
	EnableTimeBased        bool             `yaml:"enable_time_based"`
	PersistenceFile        string           `yaml:"persistence_file"`
	ResourceSampleInterval int64            `yaml:"resource_sample_interval_ms"`
}

// DefaultSchedulerConfig mirrors scheduler.DefaultConfig() field for field.
func DefaultSchedulerConfig() SchedulerConfig {
	d := scheduler.DefaultConfig()
	timeBased := make(map[string]int64, len(d.TimeBasedIntervals))
	for priority, interval := range d.TimeBasedIntervals {
		timeBased[priority.String()] = interval.Milliseconds()
	}
	gapType := make(map[string]int64, len(d.GapTypeIntervals))
	for gt, interval := range d.GapTypeIntervals {
		gapType[string(gt)] = interval.Milliseconds()
	}
	return SchedulerConfig{
		GapAnalysisIntervalMS:  d.GapAnalysisInterval.Milliseconds(),
		TimeBasedIntervalsMS:   timeBased,
		GapTypeIntervalsMS:     gapType,
		MaxConcurrentSchedules: d.MaxConcurrentSchedules,
		MaxCPUPercent:          d.ResourceLimits.MaxCPUPercent,
		MaxMemoryPercent:       d.ResourceLimits.MaxMemoryPercent,
		EnableEventDriven:      d.EnableEventDriven,
		EnableTimeBased:        d.EnableTimeBased,
		PersistenceFile:        d.PersistenceFile,
		ResourceSampleInterval: d.ResourceSampleInterval.Milliseconds(),
	}
}

var priorityByName = map[string]research.TaskPriority{
	research.PriorityCritical.String(): research.PriorityCritical,
	research.PriorityHigh.String():     research.PriorityHigh,
	research.PriorityMedium.String():   research.PriorityMedium,
	research.PriorityLow.String():      research.PriorityLow,
}

// toSchedulerConfig builds the scheduler package's Config from this
// section, falling back to the scheduler's own defaults for any
// unrecognized map key rather than silently dropping it.
func (s SchedulerConfig) toSchedulerConfig() scheduler.Config {
	base := scheduler.DefaultConfig()

	timeBased := make(map[research.TaskPriority]time.Duration, len(s.TimeBasedIntervalsMS))
	for name, ms := range s.TimeBasedIntervalsMS {
		if priority, ok := priorityByName[name]; ok {
			timeBased[priority] = time.Duration(ms) * time.Millisecond
		}
	}
	if len(timeBased) == 0 {
		timeBased = base.TimeBasedIntervals
	}

	gapType := make(map[research.GapType]time.Duration, len(s.GapTypeIntervalsMS))
	for name, ms := range s.GapTypeIntervalsMS {
		gapType[research.GapType(name)] = time.Duration(ms) * time.Millisecond
	}
	if len(gapType) == 0 {
		gapType = base.GapTypeIntervals
	}

	return scheduler.Config{
		GapAnalysisInterval:    time.Duration(s.GapAnalysisIntervalMS) * time.Millisecond,
		TimeBasedIntervals:     timeBased,
		GapTypeIntervals:       gapType,
		MaxConcurrentSchedules: s.MaxConcurrentSchedules,
		ResourceLimits: scheduler.ResourceLimits{
			MaxCPUPercent:    s.MaxCPUPercent,
			MaxMemoryPercent: s.MaxMemoryPercent,
		},
		EnableEventDriven:      s.EnableEventDriven,
		EnableTimeBased:        s.EnableTimeBased,
		PersistenceFile:        s.PersistenceFile,
		ResourceSampleInterval: time.Duration(s.ResourceSampleInterval) * time.Millisecond,
	}
}

// ToSchedulerConfig is the exported form of toSchedulerConfig, validated
// before it is handed to scheduler.New.
func (s SchedulerConfig) ToSchedulerConfig() (scheduler.Config, error) {
	cfg := s.toSchedulerConfig()
	if err := cfg.Validate(); err != nil {
		return scheduler.Config{}, fmt.Errorf("config: scheduler: %w", err)
	}
	return cfg, nil
}
