package planner

import (
	"context"

	"wanderplan/models"
)

// TravelAI is the completion service as the pipeline sees it: one call per prompt shape.
type TravelAI interface {
	CompleteExtraction(ctx context.Context, prompt string) (string, error)
	CompleteSynthesis(ctx context.Context, prompt string) (string, error)
}

// FlightSource fetches flight offers for a merged request. Errors are
// *flights.FlightSourceError values and are never fatal to a run.
type FlightSource interface {
	FetchOffers(ctx context.Context, req models.TravelRequest) ([]models.FlightOffer, error)
}

// Observer receives every stage transition of a run, in order, on the run's goroutine.
type Observer func(models.StageEvent)
