package scheduler

import (
	"time"

	"fortitude/internal/research"
)

// ResourceLimits throttles scheduling when sustained usage exceeds them.
type ResourceLimits struct {
	MaxCPUPercent    float64
	MaxMemoryPercent float64
}

// DefaultResourceLimits matches the source's defaults.
func DefaultResourceLimits() ResourceLimits {
	return ResourceLimits{MaxCPUPercent: 20.0, MaxMemoryPercent: 80.0}
}

// Config controls the scheduler's triggers, intervals, and persistence.
type Config struct {
	GapAnalysisInterval   time.Duration
	TimeBasedIntervals    map[research.TaskPriority]time.Duration
	GapTypeIntervals      map[research.GapType]time.Duration
	MaxConcurrentSchedules int
	ResourceLimits        ResourceLimits
	EnableEventDriven     bool
	EnableTimeBased       bool
	PersistenceFile       string
	ResourceSampleInterval time.Duration
}

// DefaultConfig mirrors ResearchSchedulerConfig::default() field for field.
func DefaultConfig() Config {
	return Config{
		GapAnalysisInterval: 5 * time.Minute,
		TimeBasedIntervals: map[research.TaskPriority]time.Duration{
			research.PriorityCritical: 30 * time.Second,
			research.PriorityHigh:     5 * time.Minute,
			research.PriorityMedium:   30 * time.Minute,
			research.PriorityLow:      time.Hour,
		},
		GapTypeIntervals: map[research.GapType]time.Duration{
			research.GapTodoComment:          2 * time.Minute,
			research.GapAPIDocumentationGap:  time.Minute,
			research.GapUndocumentedTech:     90 * time.Second,
			research.GapMissingDocumentation: 5 * time.Minute,
			research.GapConfigurationGap:     10 * time.Minute,
		},
		MaxConcurrentSchedules: 5,
		ResourceLimits:         DefaultResourceLimits(),
		EnableEventDriven:      true,
		EnableTimeBased:        true,
		PersistenceFile:        "scheduler_state.json",
		ResourceSampleInterval: 5 * time.Second,
	}
}

// Validate checks invariants the source enforces in validate_config.
func (c Config) Validate() error {
	if c.MaxConcurrentSchedules <= 0 {
		return errConfiguration("max_concurrent_schedules must be greater than 0")
	}
	if c.GapAnalysisInterval <= 0 {
		return errConfiguration("gap_analysis_interval must be greater than 0")
	}
	if c.ResourceLimits.MaxCPUPercent <= 0 || c.ResourceLimits.MaxCPUPercent > 100 {
		return errConfiguration("max_cpu_percent must be between 0 and 100")
	}
	if c.ResourceLimits.MaxMemoryPercent <= 0 || c.ResourceLimits.MaxMemoryPercent > 100 {
		return errConfiguration("max_memory_percent must be between 0 and 100")
	}
	return nil
}
