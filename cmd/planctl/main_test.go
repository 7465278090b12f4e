package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"wanderplan/models"
	"wanderplan/services/planner"
)

func TestPrintEvent(t *testing.T) {
	var buf bytes.Buffer
	observe := printEvent(&buf)

	observe(models.StageEvent{Stage: models.StageParsing, State: models.StatePending})
	observe(models.StageEvent{Stage: models.StageParsing, State: models.StateCompleted, Payload: &models.TravelRequest{Destination: "Paris", DestinationCode: "CDG", Duration: 7}})
	observe(models.StageEvent{Stage: models.StageFlights, State: models.StateCompleted, Payload: &models.FlightOutcome{
		Offers: []models.FlightOffer{{Price: 650, Synthetic: true}},
	}})
	observe(models.StageEvent{Stage: models.StageRun, State: models.StateFailed, Error: "boom"})

	assert.Equal(t, "[parsing] completed: Paris (CDG), 7 days\n"+
		"[flights] completed: 1 offers, best 650.00 (estimate)\n"+
		"[run] failed: boom\n", buf.String())
}

func TestTripFlagsRequest(t *testing.T) {
	f := tripFlags{depart: "2024-03-15", ret: "2024-03-20", hotelBudget: 120, purpose: "business"}

	req := f.request()

	assert.Equal(t, "2024-03-15", req.DepartureDate)
	assert.Equal(t, models.Money(120), req.HotelBudget)
	assert.Equal(t, models.PurposeBusiness, req.Purpose)
}

func TestDescribe(t *testing.T) {
	err := describe(&planner.InputError{Field: "destination", Message: "Could not determine a destination"})
	assert.EqualError(t, err, `Could not determine a destination (field "destination")`)

	cause := errors.New("upstream")
	assert.ErrorIs(t, describe(cause), cause)
}

func TestRootCmdHasSubcommands(t *testing.T) {
	cmd := rootCmd()

	plan, _, err := cmd.Find([]string{"plan"})
	assert.NoError(t, err)
	assert.Equal(t, "plan", plan.Name())
	assert.NotNil(t, plan.Flags().Lookup("hotel-budget"))
}
