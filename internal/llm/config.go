// Package llm wraps the model provider behind a small client interface and
// maps capability tiers to concrete model names.
package llm

import "maps"

// ModelTier selects a model by how much capability a call needs.
type ModelTier string

const (
	TierLite     ModelTier = "lite"     // classification, mode detection
	TierStandard ModelTier = "standard" // structured output
	TierAdvanced ModelTier = "advanced" // section rewrites under formatting rules
)

// Provider names a model backend.
type Provider string

const ProviderGemini Provider = "gemini"

// DefaultTemperature keeps edits close to deterministic.
const DefaultTemperature float32 = 0.1

// Config maps tiers to model names for one provider.
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the Gemini defaults.
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini model for each tier.
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
	}
}

// GetModel returns the model for tier. A tier with no model falls back to
// the standard model and then the lite one.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range [...]ModelTier{tier, TierStandard, TierLite} {
		if m := c.Models[t]; m != "" {
			return m
		}
	}
	return ""
}

// WithModel returns a copy of c with tier mapped to model.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := *c
	out.Models = make(map[ModelTier]string, len(c.Models)+1)
	maps.Copy(out.Models, c.Models)
	out.Models[tier] = model
	return &out
}

func (c *Config) temperature() float32 {
	if c.Temperature <= 0 {
		return DefaultTemperature
	}
	return c.Temperature
}
