package semantic

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"fortitude/internal/logging"
	"fortitude/internal/research"
	"fortitude/internal/vectorsearch"
)

var gapTypeKeywords = map[research.GapType][]string{
	research.GapTodoComment:          {"todo", "implementation", "task", "feature"},
	research.GapMissingDocumentation: {"documentation", "docs", "guide", "explanation"},
	research.GapUndocumentedTech:     {"technology", "library", "dependency", "usage"},
	research.GapAPIDocumentationGap:  {"api", "interface", "examples", "usage"},
	research.GapConfigurationGap:     {"configuration", "settings", "options", "setup"},
}

// Validator enriches DetectedGaps via a vector knowledge base.
type Validator struct {
	search vectorsearch.SemanticSearchOperations
	config Config
}

// New builds a Validator against the given search service.
func New(search vectorsearch.SemanticSearchOperations, config Config) *Validator {
	return &Validator{search: search, config: config}
}

// ValidateMany runs Validate over a batch of gaps, in config.BatchSize
// chunks, warning (not failing) if the batch exceeds MaxAnalysisTime in
// aggregate.
func (v *Validator) ValidateMany(ctx context.Context, gaps []research.DetectedGap) ([]research.SemanticGapAnalysis, error) {
	start := time.Now()
	results := make([]research.SemanticGapAnalysis, 0, len(gaps))

	for i := 0; i < len(gaps); i += v.config.BatchSize {
		end := i + v.config.BatchSize
		if end > len(gaps) {
			end = len(gaps)
		}
		for _, g := range gaps[i:end] {
			analysis, err := v.Validate(ctx, g)
			if err != nil {
				return nil, err
			}
			results = append(results, analysis)
		}
	}

	if elapsed := time.Since(start); elapsed > v.config.MaxAnalysisTime*time.Duration(len(gaps)) && len(gaps) > 0 {
		logging.Warn(logging.CategorySemantic, "batch validation exceeded time budget", "gaps", len(gaps), "elapsed_ms", elapsed.Milliseconds())
	}
	return results, nil
}

// Validate runs the full validate/discover/enhance pipeline for a single gap.
func (v *Validator) Validate(ctx context.Context, gap research.DetectedGap) (research.SemanticGapAnalysis, error) {
	start := time.Now()
	query, err := v.constructQuery(gap)
	if err != nil {
		return research.SemanticGapAnalysis{}, err
	}

	analysis := research.SemanticGapAnalysis{
		Gap:              gap,
		IsValidated:      true,
		ValidationConfidence: 0.9,
		EnhancedPriority: gap.Priority,
	}
	queryCount := 0
	var features []string

	if v.config.EnableGapValidation {
		queryCount++
		features = append(features, "gap_validation")
		validated, confidence, err := v.validateGap(ctx, query)
		if err != nil {
			return research.SemanticGapAnalysis{}, err
		}
		analysis.IsValidated = validated
		analysis.ValidationConfidence = confidence
	}

	if v.config.EnableRelatedDiscovery {
		queryCount++
		features = append(features, "related_discovery")
		related, err := v.discoverRelatedContent(ctx, query, gap.Description)
		if err != nil {
			return research.SemanticGapAnalysis{}, err
		}
		analysis.RelatedDocuments = related
	}

	if v.config.EnablePriorityEnhancement {
		features = append(features, "priority_enhancement")
		analysis.EnhancedPriority = enhancePriority(gap.Priority, analysis.RelatedDocuments, v.config.SemanticPriorityWeight)
	}

	analysis.Metadata = research.SemanticAnalysisMetadata{
		ElapsedMillis: time.Since(start).Milliseconds(),
		QueryCount:    queryCount,
		FeaturesUsed:  features,
	}

	if analysis.Metadata.ElapsedMillis > v.config.MaxAnalysisTime.Milliseconds() {
		logging.Warn(logging.CategorySemantic, "single-gap validation exceeded time budget",
			"file_path", gap.FilePath, "elapsed_ms", analysis.Metadata.ElapsedMillis)
	}

	return analysis, nil
}

// constructQuery builds the semantic search query: description + context +
// fixed gap-type keywords + metadata rendered as "k: v".
func (v *Validator) constructQuery(gap research.DetectedGap) (string, error) {
	parts := []string{gap.Description, gap.Context}
	parts = append(parts, gapTypeKeywords[gap.GapType]...)
	for k, val := range gap.Metadata {
		parts = append(parts, fmt.Sprintf("%s: %s", k, val))
	}
	query := strings.Join(parts, " ")
	if len(query) < v.config.MinContentLength {
		return "", fmt.Errorf("%w: %d chars, need >= %d", ErrQueryConstruction, len(query), v.config.MinContentLength)
	}
	return query, nil
}

func (v *Validator) validateGap(ctx context.Context, query string) (bool, float64, error) {
	threshold := v.config.GapValidationThreshold
	results, err := v.search.SearchSimilar(ctx, query, vectorsearch.SearchOptions{
		Limit:     5,
		Threshold: &threshold,
	})
	if err != nil {
		return false, 0, fmt.Errorf("semantic: validate gap: %w", err)
	}

	maxSim := 0.0
	for _, r := range results {
		if r.SimilarityScore > maxSim {
			maxSim = r.SimilarityScore
		}
	}
	if maxSim >= threshold {
		return false, 1.0 - maxSim, nil
	}
	return true, 0.9, nil
}

func (v *Validator) discoverRelatedContent(ctx context.Context, query, gapDescription string) ([]research.RelatedDocument, error) {
	threshold := v.config.RelatedContentThreshold
	results, err := v.search.SearchSimilar(ctx, query, vectorsearch.SearchOptions{
		Limit:     v.config.MaxRelatedDocuments,
		Threshold: &threshold,
		Diversify: true,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic: discover related content: %w", err)
	}

	related := make([]research.RelatedDocument, 0, len(results))
	for _, r := range results {
		related = append(related, research.RelatedDocument{
			DocumentID:       r.Document.ID,
			ContentPreview:   createContentPreview(r.Document.Content),
			SimilarityScore:  r.SimilarityScore,
			RelationshipType: determineRelationshipType(r.SimilarityScore, r.Document.Content, gapDescription),
			Metadata:         r.Document.Metadata,
		})
	}
	sort.Slice(related, func(i, j int) bool { return related[i].SimilarityScore > related[j].SimilarityScore })
	return related, nil
}

func determineRelationshipType(similarity float64, content, gapDescription string) research.RelationshipType {
	lowerContent := strings.ToLower(content)
	switch {
	case similarity >= 0.9:
		return research.RelationDuplicateGap
	case similarity >= 0.8 && (strings.Contains(lowerContent, "implementation") || strings.Contains(lowerContent, "example")):
		return research.RelationImplementationPattern
	case similarity >= 0.75 && (strings.Contains(lowerContent, strings.ToLower(gapDescription)) ||
		(strings.Contains(lowerContent, "todo") && strings.Contains(strings.ToLower(gapDescription), "todo"))):
		return research.RelationPartialCoverage
	case similarity >= 0.7:
		return research.RelationTopicalSimilarity
	default:
		return research.RelationBackgroundContext
	}
}

func createContentPreview(content string) string {
	const max = 200
	if len(content) <= max {
		return content
	}
	return content[:max] + "..."
}

// enhancePriority implements the priority-enhancement arithmetic. A
// completely unknown gap (no related content at all) gets a full +1.0
// bump added directly to the base priority; when related content exists,
// the weaker hints (+0.5 for low max-similarity, +0.3 for an
// implementation-pattern match) are scaled by semantic_priority_weight
// before being added to base. Clamped to [1,10].
func enhancePriority(basePriority int, related []research.RelatedDocument, weight float64) int {
	base := float64(basePriority)

	var enhanced float64
	if len(related) == 0 {
		enhanced = base + 1.0
	} else {
		maxSim := 0.0
		hasImplementationPattern := false
		for _, r := range related {
			if r.SimilarityScore > maxSim {
				maxSim = r.SimilarityScore
			}
			if r.RelationshipType == research.RelationImplementationPattern {
				hasImplementationPattern = true
			}
		}
		adjustment := 0.0
		if maxSim < 0.6 {
			adjustment += 0.5
		}
		if hasImplementationPattern {
			adjustment += 0.3
		}
		enhanced = base + adjustment*weight
	}

	if enhanced < 1.0 {
		enhanced = 1.0
	}
	if enhanced > 10.0 {
		enhanced = 10.0
	}
	return int(math.Round(enhanced))
}
