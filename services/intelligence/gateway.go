package ai

import (
	"context"

	"go.uber.org/zap"
)

// CallSettings fixes the tier and temperature of one kind of prompt.
type CallSettings struct {
	Tier        ModelTier
	Temperature float64
}

// TravelGateway exposes the two prompt shapes the planner needs on top of a Completer.
// Extraction runs on the fast tier at low temperature, synthesis on the advanced tier
// at a moderate one.
type TravelGateway struct {
	completer  Completer
	extraction CallSettings
	synthesis  CallSettings
	logger     *zap.Logger
}

func NewTravelGateway(completer Completer, extractionTemp, synthesisTemp float64, logger *zap.Logger) *TravelGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TravelGateway{
		completer:  completer,
		extraction: CallSettings{Tier: TierFast, Temperature: extractionTemp},
		synthesis:  CallSettings{Tier: TierAdvanced, Temperature: synthesisTemp},
		logger:     logger,
	}
}

func (g *TravelGateway) CompleteExtraction(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, "extraction", prompt, g.extraction)
}

func (g *TravelGateway) CompleteSynthesis(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, "synthesis", prompt, g.synthesis)
}

func (g *TravelGateway) complete(ctx context.Context, kind, prompt string, s CallSettings) (string, error) {
	g.logger.Debug("Sending completion request",
		zap.String("kind", kind),
		zap.String("tier", string(s.Tier)),
		zap.Float64("temperature", s.Temperature),
		zap.Int("prompt_chars", len(prompt)),
	)
	text, err := g.completer.Complete(ctx, CompletionRequest{
		Prompt:      prompt,
		Tier:        s.Tier,
		Temperature: s.Temperature,
	})
	if err != nil {
		return "", err
	}
	g.logger.Debug("Completion received", zap.String("kind", kind), zap.Int("response_chars", len(text)))
	return text, nil
}
