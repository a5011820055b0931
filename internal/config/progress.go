package config

import "fortitude/internal/progress"

// ProgressConfig mirrors progress.Config with YAML tags.
type ProgressConfig struct {
	MaxProgressHistory int `yaml:"max_progress_history"`
	EventBufferSize    int `yaml:"event_buffer_size"`
}

// DefaultProgressConfig mirrors progress.DefaultConfig() field for field.
func DefaultProgressConfig() ProgressConfig {
	d := progress.DefaultConfig()
	return ProgressConfig{MaxProgressHistory: d.MaxProgressHistory, EventBufferSize: d.EventBufferSize}
}

// ToProgressConfig builds the progress package's Config from this section.
func (p ProgressConfig) ToProgressConfig() progress.Config {
	return progress.Config{MaxProgressHistory: p.MaxProgressHistory, EventBufferSize: p.EventBufferSize}
}
