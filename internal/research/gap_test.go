package research

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGapTypeDefaultPriority(t *testing.T) {
	cases := []struct {
		gapType GapType
		want    int
	}{
		{GapAPIDocumentationGap, 9},
		{GapUndocumentedTech, 8},
		{GapTodoComment, 7},
		{GapMissingDocumentation, 6},
		{GapConfigurationGap, 5},
		{GapType("unknown"), 5},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.gapType.DefaultPriority())
	}
}

func TestNewDetectedGapUsesDefaultPriorityAndEmptyMetadata(t *testing.T) {
	g := NewDetectedGap(GapTodoComment, "main.go", 10, "// TODO: fix", "investigate", 0.9)
	assert.Equal(t, 7, g.Priority)
	assert.NotNil(t, g.Metadata)
	assert.Empty(t, g.Metadata)
}

func TestWithMetadataAndWithColumnChain(t *testing.T) {
	g := NewDetectedGap(GapTodoComment, "main.go", 10, "// TODO: fix", "investigate", 0.9).
		WithMetadata("owner", "alice").
		WithColumn(4)

	assert.Equal(t, "alice", g.Metadata["owner"])
	if assert.NotNil(t, g.ColumnNumber) {
		assert.Equal(t, 4, *g.ColumnNumber)
	}
}

func TestFingerprintIsStableAndSensitiveToEachField(t *testing.T) {
	base := Fingerprint("todo_comment", "main.go", "investigate")
	assert.Equal(t, base, Fingerprint("todo_comment", "main.go", "investigate"))
	assert.NotEqual(t, base, Fingerprint("missing_documentation", "main.go", "investigate"))
	assert.NotEqual(t, base, Fingerprint("todo_comment", "other.go", "investigate"))
	assert.NotEqual(t, base, Fingerprint("todo_comment", "main.go", "different"))
}

func TestDetectedGapFingerprintMatchesRawFingerprint(t *testing.T) {
	g := NewDetectedGap(GapTodoComment, "main.go", 10, "// TODO: fix", "investigate", 0.9)
	assert.Equal(t, Fingerprint("todo_comment", "main.go", "investigate"), g.Fingerprint())
}

func TestTaskPriorityString(t *testing.T) {
	assert.Equal(t, "Critical", PriorityCritical.String())
	assert.Equal(t, "High", PriorityHigh.String())
	assert.Equal(t, "Medium", PriorityMedium.String())
	assert.Equal(t, "Low", PriorityLow.String())
}

func TestTaskPriorityFromScoreBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  TaskPriority
	}{
		{10, PriorityCritical}, {9, PriorityCritical},
		{8, PriorityHigh}, {7, PriorityHigh},
		{6, PriorityMedium}, {4, PriorityMedium},
		{3, PriorityLow}, {0, PriorityLow},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TaskPriorityFromScore(c.score))
	}
}

func TestNewResearchTaskFromGapCopiesFingerprintAndDefaults(t *testing.T) {
	gap := NewDetectedGap(GapTodoComment, "main.go", 10, "// TODO: fix", "investigate", 0.9)
	analysis := SemanticGapAnalysis{Gap: gap, EnhancedPriority: gap.Priority}
	now := time.Now()

	task := NewResearchTaskFromGap("task-1", analysis, PriorityHigh, now)

	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, gap.Fingerprint(), task.Fingerprint)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.Equal(t, 0, task.Attempts)
	assert.Equal(t, TaskPending, task.State)
	assert.Equal(t, now, task.CreatedAt)
}
