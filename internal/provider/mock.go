package provider

import (
	"context"
	"fmt"
)

// MockProvider is a configurable in-memory Provider for tests and CLI
// demos, grounded on provider_abstraction_tests.rs's MockProvider.
type MockProvider struct {
	ProviderName string
	Healthy      bool
	ShouldFail   bool
	Response     string
}

// NewMockProvider builds a healthy, succeeding mock that echoes the query.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{ProviderName: name, Healthy: true}
}

// ResearchQuery implements Provider.
func (m *MockProvider) ResearchQuery(ctx context.Context, query string) (string, error) {
	if m.ShouldFail {
		return "", fmt.Errorf("provider %s: query failed (mock failure)", m.ProviderName)
	}
	if !m.Healthy {
		return "", fmt.Errorf("provider %s: unhealthy", m.ProviderName)
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return fmt.Sprintf("mock response for query: %s", query), nil
}

// HealthCheck implements Provider.
func (m *MockProvider) HealthCheck(ctx context.Context) (Health, error) {
	if m.Healthy {
		return Health{State: Healthy}, nil
	}
	return Health{State: Unhealthy, Reason: "mock provider unhealthy"}, nil
}

// EstimateCost implements Provider with a fixed, predictable estimate.
func (m *MockProvider) EstimateCost(ctx context.Context, query string) (Cost, error) {
	return Cost{TokensIn: len(query), TokensOut: len(query) * 2}, nil
}

// Name implements Provider.
func (m *MockProvider) Name() string { return m.ProviderName }
