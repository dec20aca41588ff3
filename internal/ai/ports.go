package ai

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/animalrescue/rescue-connect/internal/ai/schema"
)

// AI is the external generative backend. It knows nothing about reports or
// storage: it takes a ready prompt and a reply format and returns the raw
// model text.
type AI interface {
	GetReply(ctx context.Context, prompt string, format *schema.Object) (string, error)
}

var (
	ErrUnsupportedProvider  = errors.New("ai: unsupported provider")
	ErrInvalidConfiguration = errors.New("ai: invalid configuration")
)

const logLimit = 180

// short trims s for logging without splitting a UTF-8 sequence.
func short(s string) string {
	if len(s) <= logLimit {
		return s
	}
	cut := logLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
