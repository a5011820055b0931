// Package vectorsearch defines the SemanticSearchOperations contract the
// Semantic Gap Validator consumes, plus a sqlite-backed implementation
// adapted from the teacher's vector store (LocalStore.VectorRecallSemantic)
// that ranks by a brute-force cosine-similarity scan; the sqlite-vec
// extension is not used for search.
package vectorsearch

import "context"

// SearchOptions configures a similarity search.
type SearchOptions struct {
	Limit               int
	Threshold           *float64
	Diversify           bool
	IncludeExplanations bool
}

// Document is a single item in the knowledge base.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// SearchResult pairs a Document with its similarity to the query.
type SearchResult struct {
	Document        Document
	SimilarityScore float64
	RelevanceScore  float64
}

// SemanticSearchOperations is the narrow external collaborator the
// validator depends on; the vector database client's own internals
// (connection pooling, collection lifecycle, health state) are out of
// scope for this spec.
type SemanticSearchOperations interface {
	SearchSimilar(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}
