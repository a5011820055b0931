package priority

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fortitude/internal/research"
)

func TestDefaultScorerBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  research.TaskPriority
	}{
		{9, research.PriorityCritical},
		{10, research.PriorityCritical},
		{8, research.PriorityHigh},
		{7, research.PriorityHigh},
		{6, research.PriorityMedium},
		{4, research.PriorityMedium},
		{3, research.PriorityLow},
		{1, research.PriorityLow},
	}
	var s DefaultScorer
	for _, c := range cases {
		analysis := research.SemanticGapAnalysis{EnhancedPriority: c.score}
		assert.Equal(t, c.want, s.ScoreGapPriority(analysis))
	}
}
