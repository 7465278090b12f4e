package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"wanderplan/models"
)

// fakeAI answers each prompt shape with a canned reply and counts calls.
type fakeAI struct {
	mu sync.Mutex

	extraction    string
	extractionErr error
	synthesis     string
	synthesisErr  error

	extractionCalls  int
	synthesisCalls   int
	synthesisPrompts []string
}

func (f *fakeAI) CompleteExtraction(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.extractionCalls++
	return f.extraction, f.extractionErr
}

func (f *fakeAI) CompleteSynthesis(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synthesisCalls++
	f.synthesisPrompts = append(f.synthesisPrompts, prompt)
	return f.synthesis, f.synthesisErr
}

type fakeFlights struct {
	offers []models.FlightOffer
	err    error
	calls  int
	got    models.TravelRequest
}

func (f *fakeFlights) FetchOffers(_ context.Context, req models.TravelRequest) ([]models.FlightOffer, error) {
	f.calls++
	f.got = req
	return f.offers, f.err
}

// samplePlan builds a plan of the given length with the given number of surprises.
func samplePlan(destination string, days, surprises int) models.TravelPlan {
	price := 35.0
	plan := models.TravelPlan{
		ID:          "model-chosen-id",
		Destination: destination,
		Duration:    days,
		OutboundFlight: &models.Flight{
			ID:        "flight-out-1",
			Airline:   "Air France",
			Departure: models.Endpoint{Airport: "SFO", Time: "14:30", Date: "2024-03-15"},
			Arrival:   models.Endpoint{Airport: "CDG", Time: "08:15", Date: "2024-03-16"},
			Price:     999,
		},
		ReturnFlight: &models.Flight{
			ID:        "flight-ret-1",
			Airline:   "Air France",
			Departure: models.Endpoint{Airport: "CDG", Time: "11:20", Date: "2024-03-22"},
			Arrival:   models.Endpoint{Airport: "SFO", Time: "15:45", Date: "2024-03-22"},
			Price:     999,
		},
		Hotel: &models.Hotel{
			ID:            "hotel-1",
			Name:          "Hotel Lutetia",
			Rating:        4.5,
			PricePerNight: 310,
		},
		TotalCost: 1,
	}
	for d := 0; d < days; d++ {
		date := fmt.Sprintf("2024-03-%02d", 16+d)
		day := models.DayItinerary{Date: date}
		for i, slot := range []models.TimeSlot{models.SlotMorning, models.SlotAfternoon, models.SlotEvening} {
			cat := models.CategoryLeisure
			if i == 1 {
				cat = models.CategoryBusiness
			}
			if i == 2 && d < surprises {
				cat = models.CategorySurprise
			}
			day.Activities = append(day.Activities, models.Activity{
				ID:       fmt.Sprintf("act-%d-%d", d, i),
				Name:     fmt.Sprintf("Activity %d.%d", d+1, i+1),
				Location: "Paris",
				Price:    &price,
				Category: cat,
				TimeSlot: slot,
			})
		}
		plan.Itinerary = append(plan.Itinerary, day)
	}
	return plan
}

func planJSON(t *testing.T, plan models.TravelPlan) string {
	t.Helper()
	b, err := json.Marshal(plan)
	require.NoError(t, err)
	return string(b)
}

func fenced(body string) string {
	return "Here is your plan:\n```json\n" + body + "\n```"
}
