// Package triage decides whether an animal condition report needs
// immediate human attention by delegating the judgment to a generative
// model behind a fixed prompt and a validated two-field reply.
package triage

import (
	"context"

	"github.com/animalrescue/rescue-connect/internal/ai/schema"
)

// Request is the transient input of one classification.
type Request struct {
	ConditionReport string `json:"conditionReport"`
	LocationDetails string `json:"locationDetails"`
	ReporterContact string `json:"reporterContact"`
}

// Verdict is the validated reply of the model. Reason is never empty.
type Verdict struct {
	NeedsHumanAttention bool   `json:"needsHumanAttention"`
	Reason              string `json:"reason"`
}

// Backend is the generative model. ai.OpenAIClient and ai.GeminiClient
// satisfy it.
type Backend interface {
	GetReply(ctx context.Context, prompt string, format *schema.Object) (string, error)
}

// Classifier is what callers (report submission, CLI) depend on.
type Classifier interface {
	Classify(ctx context.Context, req Request) (Verdict, error)
}
