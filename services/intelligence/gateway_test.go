package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderplan/config"
)

type recordingCompleter struct {
	reqs  []CompletionRequest
	reply string
	err   error
}

func (r *recordingCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	r.reqs = append(r.reqs, req)
	return r.reply, r.err
}

func TestTravelGateway_RoutesTierAndTemperature(t *testing.T) {
	rec := &recordingCompleter{reply: "{}"}
	gw := NewTravelGateway(rec, 0.3, 0.7, nil)

	_, err := gw.CompleteExtraction(context.Background(), "extract")
	require.NoError(t, err)
	_, err = gw.CompleteSynthesis(context.Background(), "synthesize")
	require.NoError(t, err)

	require.Len(t, rec.reqs, 2)
	assert.Equal(t, CompletionRequest{Prompt: "extract", Tier: TierFast, Temperature: 0.3}, rec.reqs[0])
	assert.Equal(t, CompletionRequest{Prompt: "synthesize", Tier: TierAdvanced, Temperature: 0.7}, rec.reqs[1])
}

func TestTravelGateway_PropagatesError(t *testing.T) {
	boom := errors.New("provider down")
	gw := NewTravelGateway(&recordingCompleter{err: boom}, 0.3, 0.7, nil)

	_, err := gw.CompleteSynthesis(context.Background(), "synthesize")
	assert.ErrorIs(t, err, boom)
}

func TestNewCompleterFromConfig(t *testing.T) {
	c, err := NewCompleterFromConfig(context.Background(), config.Config{
		CompletionProvider: "openai",
		OpenAIAPIKey:       "k",
		SynthesisModel:     "gpt-4o",
	})
	require.NoError(t, err)
	oc, ok := c.(*OpenAIClient)
	require.True(t, ok)
	assert.Equal(t, "gpt-3.5-turbo", oc.models[TierFast])
	assert.Equal(t, "gpt-4o", oc.models[TierAdvanced])

	_, err = NewCompleterFromConfig(context.Background(), config.Config{CompletionProvider: "gemini"})
	assert.Error(t, err, "gemini without a key must be rejected")

	_, err = NewCompleterFromConfig(context.Background(), config.Config{CompletionProvider: "llama"})
	assert.Error(t, err)
}
