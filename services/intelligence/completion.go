// Package ai wraps the natural-language completion providers behind a single
// text-in/text-out operation.
package ai

import (
	"context"
	"fmt"

	"wanderplan/config"
)

// ModelTier selects the capability level of the model answering a prompt.
type ModelTier string

const (
	// TierFast is used for short deterministic-leaning extraction prompts.
	TierFast ModelTier = "fast"
	// TierAdvanced is used for long creative generation prompts.
	TierAdvanced ModelTier = "advanced"
)

// CompletionRequest is one prompt sent to a provider.
type CompletionRequest struct {
	Prompt      string
	Tier        ModelTier
	Temperature float64
}

// Completer is the completion service boundary.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// TierModels maps each tier to a provider model name.
type TierModels map[ModelTier]string

var defaultGeminiModels = TierModels{
	TierFast:     "models/gemini-1.5-flash",
	TierAdvanced: "models/gemini-1.5-pro",
}

var defaultOpenAIModels = TierModels{
	TierFast:     "gpt-3.5-turbo",
	TierAdvanced: "gpt-4",
}

func (m TierModels) resolve(tier ModelTier) (string, error) {
	name, ok := m[tier]
	if !ok || name == "" {
		return "", fmt.Errorf("no model configured for tier %q", tier)
	}
	return name, nil
}

// withOverrides returns a copy of m with the non-empty configured names applied.
func (m TierModels) withOverrides(fast, advanced string) TierModels {
	out := TierModels{TierFast: m[TierFast], TierAdvanced: m[TierAdvanced]}
	if fast != "" {
		out[TierFast] = fast
	}
	if advanced != "" {
		out[TierAdvanced] = advanced
	}
	return out
}

// NewCompleterFromConfig builds the provider selected by COMPLETION_PROVIDER.
func NewCompleterFromConfig(ctx context.Context, cfg config.Config) (Completer, error) {
	switch cfg.CompletionProvider {
	case "gemini", "":
		models := defaultGeminiModels.withOverrides(cfg.ExtractionModel, cfg.SynthesisModel)
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, models)
	case "openai":
		models := defaultOpenAIModels.withOverrides(cfg.ExtractionModel, cfg.SynthesisModel)
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, models), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.CompletionProvider)
	}
}
