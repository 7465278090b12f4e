package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderplan/models"
)

func TestMergeRequest_UserFieldsWin(t *testing.T) {
	extracted := models.TravelRequest{
		Description:     "Paris for work and fun",
		Destination:     "Paris",
		DestinationCode: "CDG",
		Duration:        7,
		Purpose:         models.PurposeMixed,
		Budget:          models.BudgetMid,
	}
	user := models.TravelRequest{
		Destination:   "Lyon",
		Duration:      3,
		Budget:        models.BudgetLuxury,
		DepartureDate: "2024-03-15",
		HotelBudget:   350,
	}

	got, err := MergeRequest(extracted, user)
	require.NoError(t, err)

	assert.Equal(t, models.TravelRequest{
		Description:     "Paris for work and fun",
		Destination:     "Lyon",
		DestinationCode: "CDG",
		Duration:        3,
		Purpose:         models.PurposeMixed,
		Budget:          models.BudgetLuxury,
		DepartureDate:   "2024-03-15",
		HotelBudget:     350,
	}, got)
}

func TestMergeRequest_Properties(t *testing.T) {
	extracted := models.TravelRequest{Destination: "Tokyo", DestinationCode: "NRT", Duration: 7, Purpose: models.PurposeLeisure}
	users := []models.TravelRequest{
		{},
		{Destination: "Osaka"},
		{Duration: 10, FlightBudget: 900},
		{Purpose: models.PurposeBusiness, ReturnDate: "2024-06-01", Origin: "Seattle"},
		extracted,
	}

	for _, user := range users {
		got, err := MergeRequest(extracted, user)
		require.NoError(t, err)

		// Every non-empty user field replaces, every empty one falls back.
		pick := func(u, e string) string {
			if u != "" {
				return u
			}
			return e
		}
		assert.Equal(t, pick(user.Destination, extracted.Destination), got.Destination)
		assert.Equal(t, pick(user.DestinationCode, extracted.DestinationCode), got.DestinationCode)
		assert.Equal(t, pick(string(user.Purpose), string(extracted.Purpose)), string(got.Purpose))
		assert.Equal(t, pick(user.Origin, extracted.Origin), got.Origin)
		assert.Equal(t, pick(user.ReturnDate, extracted.ReturnDate), got.ReturnDate)
		if user.Duration != 0 {
			assert.Equal(t, user.Duration, got.Duration)
		} else {
			assert.Equal(t, extracted.Duration, got.Duration)
		}
		if user.FlightBudget != 0 {
			assert.Equal(t, user.FlightBudget, got.FlightBudget)
		}
	}
}

func TestMergeRequest_DoesNotModifyInputs(t *testing.T) {
	extracted := models.TravelRequest{Destination: "Tokyo"}
	user := models.TravelRequest{Destination: "Osaka"}

	_, err := MergeRequest(extracted, user)
	require.NoError(t, err)

	assert.Equal(t, "Tokyo", extracted.Destination)
	assert.Equal(t, "Osaka", user.Destination)
}

func TestWithTripLength(t *testing.T) {
	tests := []struct {
		name string
		in   models.TravelRequest
		want int
	}{
		{"both dates", models.TravelRequest{DepartureDate: "2024-03-15", ReturnDate: "2024-03-22"}, 7},
		{"explicit duration wins", models.TravelRequest{Duration: 4, DepartureDate: "2024-03-15", ReturnDate: "2024-03-22"}, 4},
		{"only departure", models.TravelRequest{DepartureDate: "2024-03-15"}, 0},
		{"return before departure", models.TravelRequest{DepartureDate: "2024-03-22", ReturnDate: "2024-03-15"}, 0},
		{"same day", models.TravelRequest{DepartureDate: "2024-03-15", ReturnDate: "2024-03-15"}, 0},
		{"unparseable", models.TravelRequest{DepartureDate: "next friday", ReturnDate: "2024-03-15"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithTripLength(tt.in).Duration)
		})
	}
}

func TestResolveTrip_AppliesDefaults(t *testing.T) {
	got := ResolveTrip(models.TravelRequest{Destination: "Paris"}, DefaultTripDefaults)
	assert.Equal(t, 7, got.Duration)
	assert.Equal(t, models.Money(200), got.HotelBudget)

	kept := ResolveTrip(models.TravelRequest{Duration: 3, HotelBudget: 90}, DefaultTripDefaults)
	assert.Equal(t, 3, kept.Duration)
	assert.Equal(t, models.Money(90), kept.HotelBudget)
}
