// Package generator provides the content-generation contract and its
// backends. A Generator is an opaque collaborator: given a system
// instruction and a user prompt it returns newly generated text or a
// *story.GenerationError. No retries are attempted here.
package generator

import (
	"context"
	"fmt"
	"time"
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 120 * time.Second

// Generator produces text from a prompt. Implementations are blocking and
// honor ctx cancellation; they never partially persist anything.
type Generator interface {
	Name() string
	Generate(ctx context.Context, systemInstruction, userPrompt string) (string, error)
}

// Config selects and configures a backend.
type Config struct {
	Provider string `mapstructure:"provider" json:"provider"`
	BaseURL  string `mapstructure:"base_url" json:"base_url"`
	APIKey   string `mapstructure:"api_key" json:"api_key"`
	Model    string `mapstructure:"model" json:"model"`
}

// New constructs the generator named by cfg.Provider.
func New(cfg Config) (Generator, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return NewOpenAIGenerator(cfg.BaseURL, cfg.APIKey, cfg.Model), nil
	case "ollama":
		return NewOllamaGenerator(cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown generator provider: %s", cfg.Provider)
	}
}
