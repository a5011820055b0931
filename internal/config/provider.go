package config

import (
	"fmt"

	"fortitude/internal/provider"
)

// ProviderConfig selects and parameterizes the research Provider.
type ProviderConfig struct {
	Kind         string `yaml:"kind"` // "mock" or "genai"
	GenAIAPIKey  string `yaml:"genai_api_key"`
	GenAIModel   string `yaml:"genai_model"`
	VectorDBPath string `yaml:"vector_db_path"`
}

// ToProvider constructs the configured Provider implementation.
func (p ProviderConfig) ToProvider() (provider.Provider, error) {
	switch p.Kind {
	case "", "mock":
		return provider.NewMockProvider("mock"), nil
	case "genai":
		return provider.NewGenAIProvider(p.GenAIAPIKey, p.GenAIModel)
	default:
		return nil, fmt.Errorf("config: unknown provider.kind %q", p.Kind)
	}
}
