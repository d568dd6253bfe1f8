package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
	assert.False(t, cfg.Mock)
	assert.Equal(t, 20, cfg.MaxToolRounds)
	assert.Equal(t, 3, cfg.PlanThreshold)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("TRAVEL_AGENT_LLM_API_KEY", "sk-test")
	t.Setenv("TRAVEL_AGENT_LLM_MODEL", "gpt-4o")
	t.Setenv("TRAVEL_AGENT_MOCK", "true")
	t.Setenv("TRAVEL_AGENT_MAX_TOOL_ROUNDS", "7")
	t.Setenv("TRAVEL_AGENT_AMADEUS_CLIENT_ID", "amadeus-id")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.LLMAPIKey)
	assert.Equal(t, "gpt-4o", cfg.LLMModel)
	assert.True(t, cfg.Mock)
	assert.Equal(t, 7, cfg.MaxToolRounds)
	assert.Equal(t, "amadeus-id", cfg.AmadeusClientID)
}

func TestLoadRejectsNonPositiveBounds(t *testing.T) {
	t.Setenv("TRAVEL_AGENT_MAX_TOOL_ROUNDS", "0")
	t.Setenv("TRAVEL_AGENT_PLAN_THRESHOLD", "-2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.MaxToolRounds)
	assert.Equal(t, 3, cfg.PlanThreshold)
}
