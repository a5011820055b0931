package config

import (
	"time"

	"fortitude/internal/semantic"
)

// SemanticConfig mirrors semantic.Config with YAML tags.
type SemanticConfig struct {
	MinContentLength int `yaml:"min_content_length"`

	EnableGapValidation       bool `yaml:"enable_gap_validation"`
	EnableRelatedDiscovery    bool `yaml:"enable_related_discovery"`
	EnablePriorityEnhancement bool `yaml:"enable_priority_enhancement"`

	GapValidationThreshold  float64 `yaml:"gap_validation_threshold"`
	RelatedContentThreshold float64 `yaml:"related_content_threshold"`
	MaxRelatedDocuments     int     `yaml:"max_related_documents"`
	SemanticPriorityWeight  float64 `yaml:"semantic_priority_weight"`

	BatchSize       int   `yaml:"batch_size"`
	MaxAnalysisTime int64 `yaml:"max_analysis_time_ms"`
}

// DefaultSemanticConfig mirrors semantic.DefaultConfig() field for field.
func DefaultSemanticConfig() SemanticConfig {
	d := semantic.DefaultConfig()
	return SemanticConfig{
		MinContentLength:          d.MinContentLength,
		EnableGapValidation:       d.EnableGapValidation,
		EnableRelatedDiscovery:    d.EnableRelatedDiscovery,
		EnablePriorityEnhancement: d.EnablePriorityEnhancement,
		GapValidationThreshold:    d.GapValidationThreshold,
		RelatedContentThreshold:   d.RelatedContentThreshold,
		MaxRelatedDocuments:       d.MaxRelatedDocuments,
		SemanticPriorityWeight:    d.SemanticPriorityWeight,
		BatchSize:                 d.BatchSize,
		MaxAnalysisTime:           d.MaxAnalysisTime.Milliseconds(),
	}
}

// ToSemanticConfig builds the semantic package's Config from this section.
func (s SemanticConfig) ToSemanticConfig() semantic.Config {
	return semantic.Config{
		MinContentLength:          s.MinContentLength,
		EnableGapValidation:       s.EnableGapValidation,
		EnableRelatedDiscovery:    s.EnableRelatedDiscovery,
		EnablePriorityEnhancement: s.EnablePriorityEnhancement,
		GapValidationThreshold:    s.GapValidationThreshold,
		RelatedContentThreshold:   s.RelatedContentThreshold,
		MaxRelatedDocuments:       s.MaxRelatedDocuments,
		SemanticPriorityWeight:    s.SemanticPriorityWeight,
		BatchSize:                 s.BatchSize,
		MaxAnalysisTime:           time.Duration(s.MaxAnalysisTime) * time.Millisecond,
	}
}
