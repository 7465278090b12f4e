package planner

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wanderplan/models"
	"wanderplan/services/flights"
	"wanderplan/utils"
)

// Options tune an Orchestrator. Zero values fall back to the package defaults.
type Options struct {
	Defaults          TripDefaults
	Costs             CostPolicy
	ExtractionTimeout time.Duration
	SynthesisTimeout  time.Duration
}

// Orchestrator drives one run through parsing, flights and itinerary, strictly in that
// order, and reports every transition to an observer.
type Orchestrator struct {
	extractor   *RequestExtractor
	synthesizer *PlanSynthesizer
	flights     FlightSource
	opts        Options
	logger      *zap.Logger
}

func NewOrchestrator(travelAI TravelAI, source FlightSource, opts Options, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Defaults.Days <= 0 {
		opts.Defaults.Days = DefaultTripDefaults.Days
	}
	if opts.Defaults.HotelBudget <= 0 {
		opts.Defaults.HotelBudget = DefaultTripDefaults.HotelBudget
	}
	if opts.Costs == (CostPolicy{}) {
		opts.Costs = DefaultCostPolicy
	}
	if opts.Costs.BaselineFlightPrice <= 0 {
		opts.Costs.BaselineFlightPrice = DefaultCostPolicy.BaselineFlightPrice
	}
	return &Orchestrator{
		extractor:   NewRequestExtractor(travelAI, opts.ExtractionTimeout, logger),
		synthesizer: NewPlanSynthesizer(travelAI, opts.SynthesisTimeout, logger),
		flights:     source,
		opts:        opts,
		logger:      logger,
	}
}

func checkDescription(freeText string) error {
	if strings.TrimSpace(freeText) == "" {
		return &InputError{Field: "description", Message: "Please describe your trip"}
	}
	return nil
}

func checkDestination(req models.TravelRequest) error {
	if strings.TrimSpace(req.Destination) == "" {
		return &InputError{Field: "destination", Message: "Could not determine a destination, please name one"}
	}
	return nil
}

// ParseRequest runs extraction and merge only. The result carries defaults and is
// rejected when no destination could be determined.
func (o *Orchestrator) ParseRequest(ctx context.Context, freeText string, userFields models.TravelRequest) (models.TravelRequest, error) {
	if err := checkDescription(freeText); err != nil {
		return models.TravelRequest{}, err
	}
	req := o.parse(ctx, freeText, userFields)
	if err := checkDestination(req); err != nil {
		return req, err
	}
	return req, nil
}

func (o *Orchestrator) parse(ctx context.Context, freeText string, userFields models.TravelRequest) models.TravelRequest {
	extracted := o.extractor.Extract(ctx, freeText)
	userFields.Description = ""
	merged, err := MergeRequest(extracted, WithTripLength(userFields))
	if err != nil {
		o.logger.Error("Could not apply form fields, using extracted request", zap.Error(err))
	}
	merged.Description = freeText
	return ResolveTrip(merged, o.opts.Defaults)
}

// FetchFlights never fails: when the provider errors or returns nothing, the outcome
// carries the synthetic fallback offer and the reason.
func (o *Orchestrator) FetchFlights(ctx context.Context, req models.TravelRequest) models.FlightOutcome {
	offers, err := o.flights.FetchOffers(ctx, req)
	if err == nil && len(offers) > 0 {
		return models.FlightOutcome{Offers: offers, Live: true}
	}

	reason := "no offers returned"
	kind := "flights_empty"
	if err != nil {
		reason = err.Error()
		kind = "flights_" + string(flights.KindOf(err))
	}
	o.logger.Warn("Flight search unavailable, using fallback offer",
		zap.String("destination", req.Destination),
		zap.String("reason", reason),
	)
	utils.Degradations.WithLabelValues(kind).Inc()

	return models.FlightOutcome{
		Offers:  flights.FallbackOffers(req, o.opts.Costs.BaselineFlightPrice),
		Live:    false,
		Failure: reason,
	}
}

// Run executes a run under a fresh id. See RunWithID.
func (o *Orchestrator) Run(ctx context.Context, freeText string, userFields models.TravelRequest, observe Observer) (*models.TravelPlan, error) {
	return o.RunWithID(ctx, uuid.NewString(), freeText, userFields, observe)
}

// RunWithID executes the whole pipeline on the calling goroutine. An empty description is
// rejected before any event; every other outcome ends with a terminal run event.
func (o *Orchestrator) RunWithID(ctx context.Context, runID, freeText string, userFields models.TravelRequest, observe Observer) (*models.TravelPlan, error) {
	if err := checkDescription(freeText); err != nil {
		return nil, err
	}

	em := newEmitter(runID, observe)
	log := o.logger.With(zap.String("run_id", runID))
	log.Info("Pipeline run started")

	for _, s := range models.Stages {
		em.emit(s, models.StatePending, nil, nil)
	}

	em.emit(models.StageParsing, models.StateLoading, nil, nil)
	req := o.parse(ctx, freeText, userFields)
	em.emit(models.StageParsing, models.StateCompleted, &req, nil)

	if err := checkDestination(req); err != nil {
		log.Info("Run rejected, no destination")
		return nil, em.fail(err)
	}

	em.emit(models.StageFlights, models.StateLoading, nil, nil)
	outcome := o.FetchFlights(ctx, req)
	em.emit(models.StageFlights, models.StateCompleted, &outcome, nil)

	var hint *models.FlightOffer
	if outcome.Live {
		hint = outcome.Best()
	}

	em.emit(models.StageItinerary, models.StateLoading, nil, nil)
	draft, err := o.synthesizer.Synthesize(ctx, req, hint)
	if err != nil {
		em.emit(models.StageItinerary, models.StateFailed, nil, err)
		log.Error("Itinerary synthesis failed", zap.String("kind", ErrorKind(err)), zap.Error(err))
		return nil, em.fail(err)
	}

	plan := o.opts.Costs.Reconcile(*draft, outcome.Offers, float64(req.HotelBudget), req.Duration)
	plan.ID = runID
	em.emit(models.StageItinerary, models.StateCompleted, &plan, nil)
	em.finish(&plan)

	log.Info("Pipeline run completed",
		zap.String("destination", plan.Destination),
		zap.Int("days", len(plan.Itinerary)),
		zap.Int("total_cost", plan.TotalCost),
		zap.String("flight_price_source", string(plan.Pricing.FlightPriceSource)),
	)
	return &plan, nil
}

// Stream starts a run in its own goroutine and returns its events. The channel is closed
// after the terminal event. The channel holds a whole run, so the run finishes even if
// the caller stops reading; if ctx ends first, remaining events are dropped.
func (o *Orchestrator) Stream(ctx context.Context, freeText string, userFields models.TravelRequest) (<-chan models.StageEvent, error) {
	return o.StreamWithID(ctx, uuid.NewString(), freeText, userFields)
}

func (o *Orchestrator) StreamWithID(ctx context.Context, runID, freeText string, userFields models.TravelRequest) (<-chan models.StageEvent, error) {
	if err := checkDescription(freeText); err != nil {
		return nil, err
	}
	events := make(chan models.StageEvent, models.MaxRunEvents)
	go func() {
		defer close(events)
		_, _ = o.RunWithID(ctx, runID, freeText, userFields, func(ev models.StageEvent) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		})
	}()
	return events, nil
}

// emitter stamps events and records stage timings.
type emitter struct {
	runID   string
	observe Observer
	started map[models.Stage]time.Time
}

func newEmitter(runID string, observe Observer) *emitter {
	if observe == nil {
		observe = func(models.StageEvent) {}
	}
	return &emitter{runID: runID, observe: observe, started: make(map[models.Stage]time.Time)}
}

func (e *emitter) emit(stage models.Stage, state models.StageState, payload any, err error) {
	now := time.Now()
	switch {
	case state == models.StateLoading:
		e.started[stage] = now
	case state.Terminal():
		if t, ok := e.started[stage]; ok {
			utils.StageDuration.WithLabelValues(string(stage), string(state)).Observe(now.Sub(t).Seconds())
		}
	}

	ev := models.StageEvent{
		RunID:   e.runID,
		Stage:   stage,
		State:   state,
		Payload: payload,
		At:      now,
	}
	if err != nil {
		ev.Error = err.Error()
		ev.ErrorKind = ErrorKind(err)
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			ev.ErrorField = inputErr.Field
		}
	}
	e.observe(ev)
}

func (e *emitter) fail(err error) error {
	e.emit(models.StageRun, models.StateFailed, nil, err)
	utils.PipelineRuns.WithLabelValues(string(models.StateFailed)).Inc()
	return err
}

func (e *emitter) finish(plan *models.TravelPlan) {
	e.emit(models.StageRun, models.StateCompleted, plan, nil)
	utils.PipelineRuns.WithLabelValues(string(models.StateCompleted)).Inc()
}
