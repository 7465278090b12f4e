package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"wanderplan/models"
	ai "wanderplan/services/intelligence"
)

// PlanSynthesizer asks the completion service for a day-by-day plan and checks that what
// comes back honours the itinerary contract.
type PlanSynthesizer struct {
	ai      TravelAI
	timeout time.Duration
	logger  *zap.Logger
}

func NewPlanSynthesizer(travelAI TravelAI, timeout time.Duration, logger *zap.Logger) *PlanSynthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanSynthesizer{ai: travelAI, timeout: timeout, logger: logger}
}

// Synthesize returns a plan with exactly req.Duration days and one surprise activity.
// flightHint may be nil.
func (s *PlanSynthesizer) Synthesize(ctx context.Context, req models.TravelRequest, flightHint *models.FlightOffer) (*models.TravelPlan, error) {
	prompt, err := buildSynthesisPrompt(req, flightHint)
	if err != nil {
		return nil, fmt.Errorf("build synthesis prompt: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.ai.CompleteSynthesis(ctx, prompt)
	if err != nil {
		return nil, &CompletionError{Stage: models.StageItinerary, Err: err}
	}

	plan, err := parsePlan(raw, req.Duration)
	if err != nil {
		s.logger.Warn("Rejected synthesized plan",
			zap.String("destination", req.Destination),
			zap.Int("response_chars", len(raw)),
			zap.Error(err),
		)
		return nil, err
	}
	return plan, nil
}

// parsePlan decodes, validates and normalizes a completion into a plan of wantDays days.
func parsePlan(raw string, wantDays int) (*models.TravelPlan, error) {
	body := ai.ExtractJSON(raw)
	if body == "" {
		return nil, &SynthesisParseError{Reason: "no JSON object in response"}
	}

	var plan models.TravelPlan
	if err := json.Unmarshal([]byte(body), &plan); err != nil {
		return nil, &SynthesisParseError{Reason: "invalid plan JSON", Err: err}
	}
	normalizePlan(&plan)

	if err := validate.Struct(&plan); err != nil {
		return nil, classifyValidation(err)
	}
	if v := shapeViolations(&plan, wantDays); len(v) > 0 {
		return nil, &ShapeViolationError{Violations: v}
	}

	plan.Duration = wantDays
	if len(plan.CalendarEvents) == 0 {
		plan.CalendarEvents = deriveCalendarEvents(&plan)
	}
	plan.Pricing = models.PlanPricing{
		FlightPriceSource: models.PriceSynthesized,
		FlightPrice:       plan.OutboundFlight.Price,
		HotelPerNight:     plan.Hotel.PricePerNight,
		Nights:            wantDays,
	}
	return &plan, nil
}

// classifyValidation separates absent fields from fields with bad values.
func classifyValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &SynthesisParseError{Reason: "invalid plan", Err: err}
	}
	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Namespace())
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s fails %s", fe.Namespace(), fe.Tag()))
	}
	if len(missing) > 0 {
		return &SynthesisParseError{
			Reason: "missing required fields",
			Err:    errors.New(strings.Join(missing, ", ")),
		}
	}
	return &ShapeViolationError{Violations: invalid}
}

func shapeViolations(plan *models.TravelPlan, wantDays int) []string {
	var v []string
	if len(plan.Itinerary) != wantDays {
		v = append(v, fmt.Sprintf("itinerary has %d days, want %d", len(plan.Itinerary), wantDays))
	}
	if n := plan.SurpriseCount(); n != 1 {
		v = append(v, fmt.Sprintf("plan has %d surprise activities, want 1", n))
	}
	for i, day := range plan.Itinerary {
		if len(day.Activities) == 0 {
			v = append(v, fmt.Sprintf("day %d has no activities", i+1))
		}
	}
	return v
}

// normalizePlan lowercases enum values and fills missing activity ids.
func normalizePlan(plan *models.TravelPlan) {
	n := 0
	for d := range plan.Itinerary {
		acts := plan.Itinerary[d].Activities
		for i := range acts {
			n++
			acts[i].Category = models.ActivityCategory(strings.ToLower(strings.TrimSpace(string(acts[i].Category))))
			acts[i].TimeSlot = models.TimeSlot(strings.ToLower(strings.TrimSpace(string(acts[i].TimeSlot))))
			if acts[i].ID == "" {
				acts[i].ID = fmt.Sprintf("act-%d", n)
			}
		}
	}
}
