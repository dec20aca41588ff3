package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/animalrescue/rescue-connect/internal/ai/schema"
)

var testSchema = &schema.Object{
	Name: "verdict",
	Fields: []schema.Field{
		{Name: "needsHumanAttention", Type: schema.Bool, Description: "urgent"},
		{Name: "reason", Type: schema.String, Description: "why"},
	},
}

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestOpenAIClient_GetReply(t *testing.T) {
	var got map[string]any
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "{\"needsHumanAttention\":true,\"reason\":\"weak puppy\"}"},
				"finish_reason": "stop"
			}]
		}`))
	})

	raw, err := c.GetReply(context.Background(), "classify this", testSchema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"needsHumanAttention":true,"reason":"weak puppy"}`, raw)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	format, ok := got["response_format"].(map[string]any)
	require.True(t, ok, "response_format should be sent")
	assert.Equal(t, "json_schema", format["type"])

	js := format["json_schema"].(map[string]any)
	assert.Equal(t, "verdict", js["name"])
	assert.Equal(t, true, js["strict"])
	def := js["schema"].(map[string]any)
	assert.ElementsMatch(t, []any{"needsHumanAttention", "reason"}, def["required"])
}

func TestOpenAIClient_EmptyChoices(t *testing.T) {
	c := newTestOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	})

	raw, err := c.GetReply(context.Background(), "classify this", testSchema)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestOpenAIClient_APIError(t *testing.T) {
	c := newTestOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})

	_, err := c.GetReply(context.Background(), "classify this", testSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai chat completion")
}

func TestNew(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(context.Background(), Config{Provider: "llama", APIKey: "k"}, zap.NewNop())
		assert.ErrorIs(t, err, ErrUnsupportedProvider)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := New(context.Background(), Config{Provider: ProviderOpenAI}, zap.NewNop())
		assert.ErrorIs(t, err, ErrInvalidConfiguration)

		_, err = New(context.Background(), Config{Provider: ProviderGemini}, zap.NewNop())
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("openai default", func(t *testing.T) {
		b, err := New(context.Background(), Config{APIKey: "k"}, zap.NewNop())
		require.NoError(t, err)
		c, ok := b.(*OpenAIClient)
		require.True(t, ok)
		assert.Equal(t, "gpt-4o-mini", c.model)
	})
}
