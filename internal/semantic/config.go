// Package semantic implements the Semantic Gap Validator: it enriches a
// DetectedGap with related-document lookups against a vector knowledge base
// and computes an enhanced priority, grounded on the proactive semantic
// analyzer's three-stage pipeline (validate, discover, enhance).
package semantic

import "time"

// Config controls the validator's pipeline stages and thresholds.
type Config struct {
	MinContentLength int

	EnableGapValidation       bool
	EnableRelatedDiscovery    bool
	EnablePriorityEnhancement bool

	GapValidationThreshold  float64
	RelatedContentThreshold float64
	MaxRelatedDocuments     int
	SemanticPriorityWeight  float64

	BatchSize         int
	MaxAnalysisTime   time.Duration
}

// DefaultConfig matches the spec's defaults.
func DefaultConfig() Config {
	return Config{
		MinContentLength:          50,
		EnableGapValidation:       true,
		EnableRelatedDiscovery:    true,
		EnablePriorityEnhancement: true,
		GapValidationThreshold:    0.8,
		RelatedContentThreshold:   0.7,
		MaxRelatedDocuments:       5,
		SemanticPriorityWeight:    0.3,
		BatchSize:                 10,
		MaxAnalysisTime:           100 * time.Millisecond,
	}
}

// ForPerformance favors speed: fewer related documents, shorter timeout.
func ForPerformance() Config {
	c := DefaultConfig()
	c.MaxRelatedDocuments = 3
	c.MaxAnalysisTime = 50 * time.Millisecond
	return c
}

// ForAccuracy favors thoroughness over latency.
func ForAccuracy() Config {
	c := DefaultConfig()
	c.MaxRelatedDocuments = 10
	c.MaxAnalysisTime = 500 * time.Millisecond
	return c
}
