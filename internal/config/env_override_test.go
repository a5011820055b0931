package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides_GenAIKeySwitchesProviderFromMock(t *testing.T) {
	t.Run("key sets provider when still at default mock", func(t *testing.T) {
		t.Setenv("GENAI_API_KEY", "test-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "test-key", cfg.Provider.GenAIAPIKey)
		assert.Equal(t, "genai", cfg.Provider.Kind)
	})

	t.Run("key does not override an explicitly chosen provider", func(t *testing.T) {
		t.Setenv("GENAI_API_KEY", "test-key")

		cfg := DefaultConfig()
		cfg.Provider.Kind = "genai"
		cfg.applyEnvOverrides()

		assert.Equal(t, "genai", cfg.Provider.Kind)
	})
}

func TestEnvOverrides_PersistenceFile(t *testing.T) {
	t.Setenv("FORTITUDE_PERSISTENCE_FILE", "/tmp/custom_state.json")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "/tmp/custom_state.json", cfg.Scheduler.PersistenceFile)
}

func TestEnvOverrides_DebugMode(t *testing.T) {
	t.Setenv("FORTITUDE_DEBUG", "1")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.True(t, cfg.Logging.DebugMode)
}
