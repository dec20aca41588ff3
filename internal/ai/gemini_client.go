package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/animalrescue/rescue-connect/internal/ai/schema"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient answers through the Gemini API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	log         *zap.Logger
}

func NewGeminiClient(ctx context.Context, cfg Config, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY not set", ErrInvalidConfiguration)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: float32(cfg.Temperature),
		log:         logger.Named("gemini"),
	}, nil
}

func (c *GeminiClient) GetReply(ctx context.Context, prompt string, format *schema.Object) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if format != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = geminiSchema(format)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		c.log.Warn("generate content failed", zap.String("model", c.model), zap.Error(err))
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	raw := resp.Text()
	c.log.Debug("raw model response", zap.String("model", c.model), zap.String("raw", short(raw)))

	return raw, nil
}

func geminiSchema(s *schema.Object) *genai.Schema {
	props := make(map[string]*genai.Schema, len(s.Fields))
	for _, f := range s.Fields {
		t := genai.TypeString
		if f.Type == schema.Bool {
			t = genai.TypeBoolean
		}
		props[f.Name] = &genai.Schema{Type: t, Description: f.Description}
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         s.Required(),
		PropertyOrdering: s.Required(),
	}
}
