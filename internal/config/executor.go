package config

import (
	"time"

	"fortitude/internal/executor"
)

// ExecutorConfig mirrors executor.Config with YAML tags.
type ExecutorConfig struct {
	MaxConcurrentTasks int   `yaml:"max_concurrent_tasks"`
	MaxRetries         int   `yaml:"max_retries"`
	RetryDelayMS       int64 `yaml:"retry_delay_ms"`
	ProviderTimeoutMS  int64 `yaml:"provider_timeout_ms"`
	Jitter             bool  `yaml:"jitter"`
}

// DefaultExecutorConfig mirrors executor.DefaultConfig() field for field.
func DefaultExecutorConfig() ExecutorConfig {
	d := executor.DefaultConfig()
	return ExecutorConfig{
		MaxConcurrentTasks: d.MaxConcurrentTasks,
		MaxRetries:         d.MaxRetries,
		RetryDelayMS:       d.RetryDelay.Milliseconds(),
		ProviderTimeoutMS:  d.ProviderTimeout.Milliseconds(),
		Jitter:             d.Jitter,
	}
}

// ToExecutorConfig builds the executor package's Config from this section.
func (e ExecutorConfig) ToExecutorConfig() executor.Config {
	return executor.Config{
		MaxConcurrentTasks: e.MaxConcurrentTasks,
		MaxRetries:         e.MaxRetries,
		RetryDelay:         time.Duration(e.RetryDelayMS) * time.Millisecond,
		ProviderTimeout:    time.Duration(e.ProviderTimeoutMS) * time.Millisecond,
		Jitter:             e.Jitter,
	}
}
