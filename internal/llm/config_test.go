package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetModel(t *testing.T) {
	tests := []struct {
		name   string
		models map[ModelTier]string
		tier   ModelTier
		want   string
	}{
		{"defaults lite", DefaultConfig().Models, TierLite, "gemini-2.5-flash-lite"},
		{"defaults standard", DefaultConfig().Models, TierStandard, "gemini-2.5-flash"},
		{"defaults advanced", DefaultConfig().Models, TierAdvanced, "gemini-2.5-pro"},
		{"missing tier uses standard", map[ModelTier]string{TierStandard: "std"}, TierAdvanced, "std"},
		{"unknown tier falls to lite", map[ModelTier]string{TierLite: "lite"}, "unknown", "lite"},
		{"nothing configured", map[ModelTier]string{}, TierAdvanced, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Provider: ProviderGemini, Models: tt.models}
			assert.Equal(t, tt.want, cfg.GetModel(tt.tier))
		})
	}
}

func TestWithModel_CopiesConfig(t *testing.T) {
	base := DefaultConfig()
	custom := base.WithModel(TierAdvanced, "custom-model")

	assert.Equal(t, "gemini-2.5-pro", base.GetModel(TierAdvanced))
	assert.Equal(t, "custom-model", custom.GetModel(TierAdvanced))
	assert.Equal(t, base.GetModel(TierLite), custom.GetModel(TierLite))
	assert.Equal(t, ProviderGemini, custom.Provider)
}

func TestWithModel_PreservesTemperature(t *testing.T) {
	config := &Config{Provider: ProviderGemini, Models: map[ModelTier]string{}, Temperature: 0.4}
	newConfig := config.WithModel(TierLite, "m")

	assert.Equal(t, float32(0.4), newConfig.temperature())
	assert.Empty(t, config.Models)
}

func TestTemperature_DefaultsWhenUnset(t *testing.T) {
	config := &Config{Provider: ProviderGemini}
	assert.Equal(t, DefaultTemperature, config.temperature())
}

func TestGetModel_SkipsEmptyOverride(t *testing.T) {
	config := DefaultConfig().WithModel(TierAdvanced, "")
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierAdvanced))
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), nil, "")
	assert.Error(t, err)
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: "other"}, "key")
	assert.ErrorContains(t, err, "unsupported")
}
