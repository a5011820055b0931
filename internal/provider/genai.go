package provider

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GenAIProvider answers research queries via Google's Gemini chat API,
// reusing the teacher's genai client construction idiom
// (internal/embedding/genai.go).
type GenAIProvider struct {
	client *genai.Client
	model  string
}

// NewGenAIProvider builds a GenAIProvider.
func NewGenAIProvider(apiKey, model string) (*GenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("provider: GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("provider: create GenAI client: %w", err)
	}
	return &GenAIProvider{client: client, model: model}, nil
}

// ResearchQuery implements Provider.
func (p *GenAIProvider) ResearchQuery(ctx context.Context, query string) (string, error) {
	result, err := p.client.Models.GenerateContent(ctx, p.model,
		[]*genai.Content{genai.NewContentFromText(query, genai.RoleUser)}, nil)
	if err != nil {
		return "", fmt.Errorf("provider: research query failed: %w", err)
	}
	return result.Text(), nil
}

// HealthCheck implements Provider by issuing a minimal query.
func (p *GenAIProvider) HealthCheck(ctx context.Context) (Health, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := p.ResearchQuery(ctx, "ping"); err != nil {
		return Health{State: Unhealthy, Reason: err.Error()}, nil
	}
	return Health{State: Healthy}, nil
}

// EstimateCost implements Provider with a rough token-count heuristic; the
// core only needs a stable contract, not billing accuracy.
func (p *GenAIProvider) EstimateCost(ctx context.Context, query string) (Cost, error) {
	tokensIn := len(query) / 4
	return Cost{
		TokensIn:  tokensIn,
		TokensOut: tokensIn * 2,
		Duration:  time.Duration(tokensIn) * time.Millisecond,
	}, nil
}

// Name implements Provider.
func (p *GenAIProvider) Name() string { return fmt.Sprintf("genai:%s", p.model) }
