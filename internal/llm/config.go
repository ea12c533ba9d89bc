// Package llm wraps the Gemini API behind a small provider-neutral client.
package llm

// ModelTier selects a model by how much reasoning a task needs.
type ModelTier string

const (
	// TierLite serves chat replies and text cleanup.
	TierLite ModelTier = "lite"
	// TierStandard serves structured generation such as interview questions.
	TierStandard ModelTier = "standard"
)

// Provider names an LLM backend.
type Provider string

// ProviderGemini is the only supported provider.
const ProviderGemini Provider = "gemini"

// DefaultEmbeddingModel embeds chat retrieval passages.
const DefaultEmbeddingModel = "text-embedding-004"

// Config maps tiers onto provider model names.
type Config struct {
	Provider       Provider
	Models         map[ModelTier]string
	EmbeddingModel string
}

// DefaultConfig returns the Gemini defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.0-flash-lite",
			TierStandard: "gemini-2.0-flash",
		},
		EmbeddingModel: DefaultEmbeddingModel,
	}
}

// ConfigForModel returns a config that routes every tier to model. An empty
// model keeps the defaults.
func ConfigForModel(model string) *Config {
	cfg := DefaultConfig()
	if model == "" {
		return cfg
	}
	for tier := range cfg.Models {
		cfg.Models[tier] = model
	}
	return cfg
}

// GetModel returns the model for tier, falling back to the standard tier.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with tier pointed at model.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := &Config{
		Provider:       c.Provider,
		Models:         make(map[ModelTier]string, len(c.Models)+1),
		EmbeddingModel: c.EmbeddingModel,
	}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return out
}
