// Package config builds the runtime configuration once at startup from
// environment variables and flags, and is injected into constructors.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "TRAVEL_AGENT"

// Config is the full runtime configuration. There is no package-level
// state; callers pass the struct (or a slice of it) to whatever needs it.
type Config struct {
	// LLM provider.
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string

	// Amadeus self-service API. Ignored when Mock is set.
	AmadeusClientID     string
	AmadeusClientSecret string
	AmadeusBaseURL      string

	// Mock swaps the live search provider for the deterministic fixture one.
	Mock bool

	// DataDir optionally overrides the embedded transfer knowledge base.
	DataDir string

	// ProfilePath is where the user profile document lives.
	ProfilePath string

	// Agent loop bounds.
	MaxToolRounds int
	PlanThreshold int
}

// Load reads TRAVEL_AGENT_* environment variables and returns the
// resulting configuration. Flag overrides are applied by the caller on
// top of the returned struct.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("amadeus.base_url", "")
	v.SetDefault("mock", false)
	v.SetDefault("max_tool_rounds", 20)
	v.SetDefault("plan_threshold", 3)

	cfg := &Config{
		LLMBaseURL:          v.GetString("llm.base_url"),
		LLMAPIKey:           v.GetString("llm.api_key"),
		LLMModel:            v.GetString("llm.model"),
		AmadeusClientID:     v.GetString("amadeus.client_id"),
		AmadeusClientSecret: v.GetString("amadeus.client_secret"),
		AmadeusBaseURL:      v.GetString("amadeus.base_url"),
		Mock:                v.GetBool("mock"),
		DataDir:             v.GetString("data_dir"),
		ProfilePath:         v.GetString("profile_path"),
		MaxToolRounds:       v.GetInt("max_tool_rounds"),
		PlanThreshold:       v.GetInt("plan_threshold"),
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = 20
	}
	if cfg.PlanThreshold <= 0 {
		cfg.PlanThreshold = 3
	}
	return cfg, nil
}
