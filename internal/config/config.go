// Package config loads and validates Fortitude's configuration, adapted
// from the teacher's YAML-backed Config struct: same Load/Save/env-override
// idiom, trimmed to the sections a proactive research core actually needs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"fortitude/internal/logging"
)

// Config holds every option a Fortitude deployment recognizes.
type Config struct {
	Gap       GapConfig       `yaml:"gap"`
	Semantic  SemanticConfig  `yaml:"semantic"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Executor  ExecutorConfig  `yaml:"executor"`
	Queue     QueueConfig     `yaml:"queue"`
	Progress  ProgressConfig  `yaml:"progress"`
	Provider  ProviderConfig  `yaml:"provider"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DefaultConfig mirrors each subsystem's own DefaultConfig, so a freshly
// written config.yaml documents the values the core would use anyway.
func DefaultConfig() *Config {
	return &Config{
		Gap:       DefaultGapConfig(),
		Semantic:  DefaultSemanticConfig(),
		Scheduler: DefaultSchedulerConfig(),
		Executor:  DefaultExecutorConfig(),
		Queue:     DefaultQueueConfig(),
		Progress:  DefaultProgressConfig(),
		Provider:  ProviderConfig{Kind: "mock", GenAIModel: "gemini-2.0-flash"},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			File:      "fortitude.log",
			DebugMode: false,
		},
	}
}

// Load reads path as YAML, falling back to defaults if it does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.Debug(logging.CategoryBoot, "loading config", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Info(logging.CategoryBoot, "config file not found, using defaults", "path", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes c to path as YAML, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides layers environment variables over file/default values,
// checked in the same priority-list style as the teacher's LLM key lookup.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GENAI_API_KEY"); key != "" {
		c.Provider.GenAIAPIKey = key
		if c.Provider.Kind == "" || c.Provider.Kind == "mock" {
			c.Provider.Kind = "genai"
		}
	}
	if path := os.Getenv("FORTITUDE_PERSISTENCE_FILE"); path != "" {
		c.Scheduler.PersistenceFile = path
	}
	if db := os.Getenv("FORTITUDE_VECTOR_DB"); db != "" {
		c.Provider.VectorDBPath = db
	}
	if os.Getenv("FORTITUDE_DEBUG") == "1" {
		c.Logging.DebugMode = true
	}
}

// Validate checks invariants each subsystem's own Validate doesn't already
// cover at construction time (those run again when the section is wired
// into its component; this catches config-level mistakes earlier).
func (c *Config) Validate() error {
	if err := c.Scheduler.toSchedulerConfig().Validate(); err != nil {
		return fmt.Errorf("config: scheduler: %w", err)
	}
	if c.Executor.MaxConcurrentTasks <= 0 {
		return fmt.Errorf("config: executor.max_concurrent_tasks must be greater than 0")
	}
	if c.Queue.MaxSize <= 0 {
		return fmt.Errorf("config: queue.max_size must be greater than 0")
	}
	validKinds := map[string]bool{"mock": true, "genai": true}
	if !validKinds[c.Provider.Kind] {
		return fmt.Errorf("config: provider.kind %q is not one of mock, genai", c.Provider.Kind)
	}
	return nil
}

// GetAnalysisTimeout returns the analyzer's soft per-file cap as a duration.
func (c *Config) GetAnalysisTimeout() time.Duration {
	return time.Duration(c.Gap.AnalysisTimeoutMS) * time.Millisecond
}
