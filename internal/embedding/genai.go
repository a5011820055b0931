// Package embedding wraps the Google GenAI client as the embedding engine
// backing Fortitude's vector search, adapted from the teacher's embedding
// engine with the same client shape, batching scheme and dimensionality.
package embedding

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"fortitude/internal/logging"
)

// maxBatchSize is the maximum number of texts allowed in a single GenAI
// batch request; the API rejects larger batches.
const maxBatchSize = 100

func int32Ptr(i int32) *int32 { return &i }

// Engine generates embeddings for content stored in or queried against the
// vector knowledge base.
type Engine interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
	Close() error
}

// GenAIEngine generates embeddings using Google's Gemini API.
type GenAIEngine struct {
	client *genai.Client
	model  string
}

// NewGenAIEngine creates a new GenAI embedding engine.
func NewGenAIEngine(apiKey, model string) (*GenAIEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("embedding: GenAI API key is required")
	}
	if model == "" {
		model = "gemini-embedding-001"
	}

	start := time.Now()
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("embedding: create GenAI client: %w", err)
	}
	logging.Info(logging.CategoryVector, "genai client created", "model", model, "latency_ms", time.Since(start).Milliseconds())

	return &GenAIEngine{client: client, model: model}, nil
}

// Embed generates an embedding for a single text.
func (e *GenAIEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: int32Ptr(3072),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: GenAI embed failed: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("embedding: no embeddings returned")
	}
	return result.Embeddings[0].Values, nil
}

// EmbedBatch generates embeddings for multiple texts, chunking requests
// larger than maxBatchSize and concatenating the results.
func (e *GenAIEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if len(texts) <= maxBatchSize {
		return e.embedBatchChunk(ctx, texts)
	}

	numBatches := (len(texts) + maxBatchSize - 1) / maxBatchSize
	all := make([][]float32, 0, len(texts))
	for i := 0; i < numBatches; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		start := i * maxBatchSize
		end := start + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		chunk, err := e.embedBatchChunk(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embedding: batch %d/%d: %w", i+1, numBatches, err)
		}
		all = append(all, chunk...)
	}
	return all, nil
}

func (e *GenAIEngine) embedBatchChunk(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}
	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: int32Ptr(3072),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: GenAI batch embed failed: %w", err)
	}
	embeddings := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		embeddings[i] = emb.Values
	}
	return embeddings, nil
}

// Dimensions returns the dimensionality of embeddings produced by this
// engine (gemini-embedding-001 produces 3072-dimensional vectors).
func (e *GenAIEngine) Dimensions() int { return 3072 }

// Name identifies the engine for logging/metadata purposes.
func (e *GenAIEngine) Name() string { return fmt.Sprintf("genai:%s", e.model) }

// Close is a no-op; the GenAI client requires no explicit cleanup.
func (e *GenAIEngine) Close() error { return nil }
