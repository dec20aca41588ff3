package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"github.com/animalrescue/rescue-connect/internal/ai/schema"
)

type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	log         *zap.Logger
}

func NewOpenAIClient(cfg Config, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", ErrInvalidConfiguration)
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(oc),
		model:       model,
		temperature: float32(cfg.Temperature),
		log:         logger.Named("openai"),
	}, nil
}

func (c *OpenAIClient) GetReply(ctx context.Context, prompt string, format *schema.Object) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	// the reply format is enforced by a strict JSON schema, not by prompt text
	if format != nil {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   format.Name,
				Schema: openAISchema(format),
				Strict: true,
			},
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.log.Warn("chat completion failed", zap.String("model", c.model), zap.Error(err))
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		c.log.Warn("empty choices", zap.String("model", c.model))
		return "", nil
	}

	raw := resp.Choices[0].Message.Content
	c.log.Debug("raw model response", zap.String("model", c.model), zap.String("raw", short(raw)))

	return raw, nil
}

func openAISchema(s *schema.Object) *jsonschema.Definition {
	props := make(map[string]jsonschema.Definition, len(s.Fields))
	for _, f := range s.Fields {
		t := jsonschema.String
		if f.Type == schema.Bool {
			t = jsonschema.Boolean
		}
		props[f.Name] = jsonschema.Definition{Type: t, Description: f.Description}
	}
	return &jsonschema.Definition{
		Type:                 jsonschema.Object,
		Properties:           props,
		Required:             s.Required(),
		AdditionalProperties: false,
	}
}
