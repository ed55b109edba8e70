// Package llm abstracts the text-generation backend as a minimal capability:
// given an instruction payload, return raw text. The backend offers no
// determinism guarantee; downstream sanitization and consistency checks
// compensate for that.
package llm

import (
	"context"
	"fmt"

	"tfsmith/internal/config"
)

// Client is the minimal interface the pipeline uses to call the backend.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Name() string
}

// NewClient builds a backend client from config.
func NewClient(cfg config.LLMConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for backend %q", cfg.Provider)
	}
	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiClient(cfg)
	case "openai":
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown backend provider %q", cfg.Provider)
	}
}
