package config

import (
	"time"

	"fortitude/internal/gap"
)

// GapConfig mirrors gap.Config with YAML tags for the options spec.md §6
// lists under "core-only" configuration.
type GapConfig struct {
	SupportedExtensions    []string `yaml:"supported_extensions"`
	MaxFileSizeBytes       int64    `yaml:"max_file_size_bytes"`
	AnalysisTimeoutMS      int64    `yaml:"analysis_timeout_ms"`
	MinConfidenceThreshold float64  `yaml:"min_confidence_threshold"`

	EnableTodoDetection   bool `yaml:"enable_todo_detection"`
	EnableDocsDetection   bool `yaml:"enable_docs_detection"`
	EnableTechDetection   bool `yaml:"enable_tech_detection"`
	EnableAPIDetection    bool `yaml:"enable_api_detection"`
	EnableConfigDetection bool `yaml:"enable_config_detection"`

	CustomTodoPatterns []string `yaml:"custom_todo_patterns"`
	CustomDocPatterns  []string `yaml:"custom_doc_patterns"`
}

// DefaultGapConfig mirrors gap.DefaultConfig() field for field.
func DefaultGapConfig() GapConfig {
	d := gap.DefaultConfig()
	return GapConfig{
		SupportedExtensions:    d.SupportedExtensions,
		MaxFileSizeBytes:       d.MaxFileSizeBytes,
		AnalysisTimeoutMS:      d.AnalysisTimeout.Milliseconds(),
		MinConfidenceThreshold: d.MinConfidenceThreshold,
		EnableTodoDetection:    d.EnableTodoDetection,
		EnableDocsDetection:    d.EnableDocsDetection,
		EnableTechDetection:    d.EnableTechDetection,
		EnableAPIDetection:     d.EnableAPIDetection,
		EnableConfigDetection:  d.EnableConfigDetection,
	}
}

// ToGapConfig builds the gap package's Config from this section.
func (g GapConfig) ToGapConfig() gap.Config {
	return gap.Config{
		SupportedExtensions:    g.SupportedExtensions,
		MaxFileSizeBytes:       g.MaxFileSizeBytes,
		AnalysisTimeout:        time.Duration(g.AnalysisTimeoutMS) * time.Millisecond,
		MinConfidenceThreshold: g.MinConfidenceThreshold,
		EnableTodoDetection:    g.EnableTodoDetection,
		EnableDocsDetection:    g.EnableDocsDetection,
		EnableTechDetection:    g.EnableTechDetection,
		EnableAPIDetection:     g.EnableAPIDetection,
		EnableConfigDetection:  g.EnableConfigDetection,
		CustomTodoPatterns:     g.CustomTodoPatterns,
		CustomDocPatterns:      g.CustomDocPatterns,
	}
}
