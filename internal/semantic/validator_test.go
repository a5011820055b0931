package semantic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fortitude/internal/research"
	"fortitude/internal/vectorsearch"
)

type mockSearch struct {
	mock.Mock
}

func (m *mockSearch) SearchSimilar(ctx context.Context, query string, opts vectorsearch.SearchOptions) ([]vectorsearch.SearchResult, error) {
	args := m.Called(ctx, query, opts)
	res, _ := args.Get(0).([]vectorsearch.SearchResult)
	return res, args.Error(1)
}

func longGap() research.DetectedGap {
	return research.NewDetectedGap(
		research.GapTodoComment,
		"src/main.rs",
		2,
		"// TODO: handle all the edge cases around error propagation carefully",
		"handle all the edge cases around error propagation carefully",
		0.9,
	)
}

func TestValidateEmptyKnowledgeBaseYieldsValidatedAndBoostedPriority(t *testing.T) {
	search := &mockSearch{}
	search.On("SearchSimilar", mock.Anything, mock.Anything, mock.Anything).
		Return([]vectorsearch.SearchResult{}, nil)

	v := New(search, DefaultConfig())
	analysis, err := v.Validate(context.Background(), longGap())
	require.NoError(t, err)

	assert.True(t, analysis.IsValidated)
	assert.Equal(t, 0.9, analysis.ValidationConfidence)
	assert.Empty(t, analysis.RelatedDocuments)
	assert.Equal(t, 8, analysis.EnhancedPriority) // base 7 (TodoComment) + unscaled 1.0 for no related content
}

func TestValidateGapAlreadyCoveredByKnowledgeBase(t *testing.T) {
	search := &mockSearch{}
	search.On("SearchSimilar", mock.Anything, mock.Anything, mock.MatchedBy(func(o vectorsearch.SearchOptions) bool {
		return o.Limit == 5
	})).Return([]vectorsearch.SearchResult{
		{Document: vectorsearch.Document{ID: "doc1", Content: "existing docs"}, SimilarityScore: 0.85},
	}, nil)

	v := New(search, DefaultConfig())
	analysis, err := v.Validate(context.Background(), longGap())
	require.NoError(t, err)

	assert.False(t, analysis.IsValidated)
	assert.InDelta(t, 0.15, analysis.ValidationConfidence, 1e-9)
}

func TestQueryConstructionRejectsShortQueries(t *testing.T) {
	search := &mockSearch{}
	v := New(search, DefaultConfig())

	shortGap := research.NewDetectedGap(research.GapConfigurationGap, "a.toml", 1, "x = 1", "x", 0.5)
	_, err := v.Validate(context.Background(), shortGap)
	require.ErrorIs(t, err, ErrQueryConstruction)
}

func TestDetermineRelationshipTypeBoundaries(t *testing.T) {
	assert.Equal(t, research.RelationDuplicateGap, determineRelationshipType(0.95, "anything", "desc"))
	assert.Equal(t, research.RelationImplementationPattern, determineRelationshipType(0.85, "see implementation here", "desc"))
	assert.Equal(t, research.RelationTopicalSimilarity, determineRelationshipType(0.72, "plain content", "desc"))
	assert.Equal(t, research.RelationBackgroundContext, determineRelationshipType(0.5, "plain content", "desc"))
}

func TestCreateContentPreviewTruncatesAt200Chars(t *testing.T) {
	long := ""
	for i := 0; i < 250; i++ {
		long += "a"
	}
	preview := createContentPreview(long)
	assert.Len(t, preview, 203)
	assert.True(t, preview[200:] == "...")
}
