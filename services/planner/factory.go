package planner

import (
	"context"
	"io"

	"go.uber.org/zap"

	"wanderplan/config"
	"wanderplan/services/flights"
	ai "wanderplan/services/intelligence"
)

// NewOrchestratorFromConfig wires the completion provider and the flight source named by
// cfg. The returned cleanup releases the provider client.
func NewOrchestratorFromConfig(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Orchestrator, func(), error) {
	completer, err := ai.NewCompleterFromConfig(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if c, ok := completer.(io.Closer); ok {
			_ = c.Close()
		}
	}

	gateway := ai.NewTravelGateway(completer, cfg.ExtractionTemperature, cfg.SynthesisTemperature, logger)
	source := flights.NewApifySource(flights.ApifyConfig{
		Endpoint: cfg.FlightSearchURL,
		Token:    cfg.ApifyAPIToken,
		Origin:   cfg.FlightOrigin,
		Timeout:  cfg.FlightTimeout,
	}, logger)

	orch := NewOrchestrator(gateway, source, Options{
		Defaults: TripDefaults{
			Days:        cfg.DefaultTripDays,
			HotelBudget: cfg.DefaultHotelBudget,
		},
		Costs: CostPolicy{
			ActivityEstimate:    cfg.ActivityEstimate,
			BaselineFlightPrice: cfg.FallbackFlightPrice,
		},
		ExtractionTimeout: cfg.ExtractionTimeout,
		SynthesisTimeout:  cfg.SynthesisTimeout,
	}, logger)
	return orch, cleanup, nil
}
