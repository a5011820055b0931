// Package research holds the domain types shared by the proactive research
// pipeline: gaps, their semantic analysis, research tasks and priorities.
package research

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// GapType classifies a DetectedGap.
type GapType string

const (
	GapTodoComment           GapType = "todo_comment"
	GapMissingDocumentation  GapType = "missing_documentation"
	GapUndocumentedTech      GapType = "undocumented_technology"
	GapAPIDocumentationGap   GapType = "api_documentation_gap"
	GapConfigurationGap      GapType = "configuration_gap"
)

// DefaultPriority returns the default 1..=10 priority for a gap type, used
// when no semantic enhancement has run yet.
func (g GapType) DefaultPriority() int {
	switch g {
	case GapAPIDocumentationGap:
		return 9
	case GapUndocumentedTech:
		return 8
	case GapTodoComment:
		return 7
	case GapMissingDocumentation:
		return 6
	case GapConfigurationGap:
		return 5
	default:
		return 5
	}
}

// DetectedGap is a single finding in a file.
type DetectedGap struct {
	GapType       GapType           `json:"gap_type"`
	FilePath      string            `json:"file_path"`
	LineNumber    int               `json:"line_number"`
	ColumnNumber  *int              `json:"column_number,omitempty"`
	Context       string            `json:"context"`
	Description   string            `json:"description"`
	Confidence    float64           `json:"confidence"`
	Priority      int               `json:"priority"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewDetectedGap builds a gap with the gap type's default priority.
func NewDetectedGap(gapType GapType, filePath string, line int, context, description string, confidence float64) DetectedGap {
	return DetectedGap{
		GapType:     gapType,
		FilePath:    filePath,
		LineNumber:  line,
		Context:     context,
		Description: description,
		Confidence:  confidence,
		Priority:    gapType.DefaultPriority(),
		Metadata:    map[string]string{},
	}
}

// WithMetadata sets a metadata key and returns the gap for chaining.
func (g DetectedGap) WithMetadata(key, value string) DetectedGap {
	if g.Metadata == nil {
		g.Metadata = map[string]string{}
	}
	g.Metadata[key] = value
	return g
}

// WithColumn sets the optional column number.
func (g DetectedGap) WithColumn(col int) DetectedGap {
	g.ColumnNumber = &col
	return g
}

// Fingerprint computes the stable dedup key for a gap: a hash of
// {gap_type, file_path, description}, per the Data Model's invariant.
func (g DetectedGap) Fingerprint() string {
	return Fingerprint(string(g.GapType), g.FilePath, g.Description)
}

// Fingerprint hashes the dedup tuple directly, for callers that only have
// the raw fields (e.g. constructing a ResearchTask from a validated gap).
func Fingerprint(gapType, filePath, description string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s", gapType, filePath, description)
	return hex.EncodeToString(h.Sum(nil))
}

// RelationshipType classifies how a RelatedDocument relates to a gap.
type RelationshipType string

const (
	RelationPartialCoverage      RelationshipType = "partial_coverage"
	RelationTopicalSimilarity    RelationshipType = "topical_similarity"
	RelationBackgroundContext    RelationshipType = "background_context"
	RelationImplementationPattern RelationshipType = "implementation_pattern"
	RelationDuplicateGap         RelationshipType = "duplicate_gap"
)

// RelatedDocument is a neighbor discovered by the semantic validator.
type RelatedDocument struct {
	DocumentID       string            `json:"document_id"`
	ContentPreview   string            `json:"content_preview"`
	SimilarityScore  float64           `json:"similarity_score"`
	RelationshipType RelationshipType  `json:"relationship_type"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// SemanticAnalysisMetadata records bookkeeping about one validation pass.
type SemanticAnalysisMetadata struct {
	ElapsedMillis int64    `json:"elapsed_millis"`
	QueryCount    int      `json:"query_count"`
	FeaturesUsed  []string `json:"features_used"`
}

// SemanticGapAnalysis wraps a DetectedGap with the outcome of semantic
// validation.
type SemanticGapAnalysis struct {
	Gap                DetectedGap              `json:"gap"`
	IsValidated        bool                     `json:"is_validated"`
	ValidationConfidence float64                `json:"validation_confidence"`
	RelatedDocuments   []RelatedDocument        `json:"related_documents"`
	EnhancedPriority   int                      `json:"enhanced_priority"`
	Metadata           SemanticAnalysisMetadata `json:"metadata"`
}

// TaskPriority is the four-level total order used for scheduling.
type TaskPriority int

const (
	PriorityLow TaskPriority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (p TaskPriority) String() string {
	switch p {
	case PriorityCritical:
		return "Critical"
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// TaskPriorityFromScore maps an integer priority 1..=10 to a TaskPriority,
// per the boundaries fixed by the Data Model: p>=9 Critical, 7-8 High,
// 4-6 Medium, else Low.
func TaskPriorityFromScore(p int) TaskPriority {
	switch {
	case p >= 9:
		return PriorityCritical
	case p >= 7:
		return PriorityHigh
	case p >= 4:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// TaskState is the lifecycle state of a ResearchTask.
type TaskState string

const (
	TaskPending   TaskState = "pending"
	TaskRunning   TaskState = "running"
	TaskCompleted TaskState = "completed"
	TaskFailed    TaskState = "failed"
	TaskCancelled TaskState = "cancelled"
)

// ResearchTask is a unit of work dispatched to the executor.
type ResearchTask struct {
	ID          string       `json:"id"`
	Fingerprint string       `json:"fingerprint"`
	Priority    TaskPriority `json:"priority"`
	SourceGap   SemanticGapAnalysis `json:"source_gap"`
	CreatedAt   time.Time    `json:"created_at"`
	Attempts    int          `json:"attempts"`
	State       TaskState    `json:"state"`
}

// NewResearchTaskFromGap constructs a ResearchTask from a validated gap,
// assigning it the given id and priority.
func NewResearchTaskFromGap(id string, analysis SemanticGapAnalysis, priority TaskPriority, now time.Time) ResearchTask {
	return ResearchTask{
		ID:          id,
		Fingerprint: Fingerprint(string(analysis.Gap.GapType), analysis.Gap.FilePath, analysis.Gap.Description),
		Priority:    priority,
		SourceGap:   analysis,
		CreatedAt:   now,
		Attempts:    0,
		State:       TaskPending,
	}
}
