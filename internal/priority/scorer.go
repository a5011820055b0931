// Package priority maps a validated gap's integer priority to the
// four-level TaskPriority used for scheduling and queue ordering.
package priority

import "fortitude/internal/research"

// Scorer assigns a TaskPriority to a semantically analyzed gap. The
// scheduler consults a Scorer if one is configured, else falls back to the
// plain integer-to-priority mapping.
type Scorer interface {
	ScoreGapPriority(analysis research.SemanticGapAnalysis) research.TaskPriority
}

// DefaultScorer maps enhanced_priority via the fixed boundaries the Data
// Model defines: p>=9 Critical, 7-8 High, 4-6 Medium, else Low.
type DefaultScorer struct{}

// ScoreGapPriority implements Scorer.
func (DefaultScorer) ScoreGapPriority(analysis research.SemanticGapAnalysis) research.TaskPriority {
	return research.TaskPriorityFromScore(analysis.EnhancedPriority)
}
