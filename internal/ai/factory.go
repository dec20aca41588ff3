package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config contains configuration for the generative backend.
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
}

// New returns the backend for cfg.Provider.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (AI, error) {
	switch cfg.Provider {
	case ProviderOpenAI, "":
		c, err := NewOpenAIClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderGemini:
		c, err := NewGeminiClient(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}
