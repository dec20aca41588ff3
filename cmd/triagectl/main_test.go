package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/animalrescue/rescue-connect/internal/ai/schema"
	"github.com/animalrescue/rescue-connect/internal/triage"
)

type cannedBackend struct {
	reply string
	calls int
}

func (b *cannedBackend) GetReply(context.Context, string, *schema.Object) (string, error) {
	b.calls++
	return b.reply, nil
}

func TestClassifyPrintsVerdict(t *testing.T) {
	backend := &cannedBackend{reply: `{"needsHumanAttention":true,"reason":"Bleeding paw, reachable location."}`}
	var out bytes.Buffer

	err := classify(context.Background(), triage.NewClassifier(backend, zap.NewNop()), triage.Request{
		ConditionReport: "Puppy with a bleeding paw",
		LocationDetails: "Behind the bakery on 5th street",
		ReporterContact: "jane@example.com",
	}, &out)
	require.NoError(t, err)

	var v triage.Verdict
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	assert.True(t, v.NeedsHumanAttention)
	assert.Equal(t, "Bleeding paw, reachable location.", v.Reason)
	assert.Contains(t, out.String(), "\n  \"reason\"")
}

func TestClassifyMissingFields(t *testing.T) {
	backend := &cannedBackend{}
	var out bytes.Buffer

	err := classify(context.Background(), triage.NewClassifier(backend, zap.NewNop()),
		triage.Request{ConditionReport: "Injured cat"}, &out)
	require.Error(t, err)
	assert.Equal(t, "validation", triage.Kind(err))
	assert.Zero(t, backend.calls)
	assert.Empty(t, out.String())
}
