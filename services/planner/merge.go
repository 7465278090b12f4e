package planner

import (
	"fmt"
	"math"
	"time"

	"dario.cat/mergo"

	"wanderplan/models"
)

const dateLayout = "2006-01-02"

// TripDefaults fill what neither the text nor the form supplied.
type TripDefaults struct {
	Days        int
	HotelBudget float64
}

// DefaultTripDefaults are a week at 200 per night.
var DefaultTripDefaults = TripDefaults{Days: 7, HotelBudget: 200}

// MergeRequest overlays the form fields on the extracted request: every non-empty user
// field wins, every empty one keeps the extracted value. On error the extracted request
// is returned unchanged.
func MergeRequest(extracted, userFields models.TravelRequest) (models.TravelRequest, error) {
	merged := extracted
	if err := mergo.Merge(&merged, userFields, mergo.WithOverride); err != nil {
		return extracted, fmt.Errorf("merge form fields: %w", err)
	}
	return merged, nil
}

// WithTripLength derives the duration from the form dates when the form gave both dates
// but no duration. The result rounds partial days up and ignores non-positive spans.
func WithTripLength(userFields models.TravelRequest) models.TravelRequest {
	if userFields.Duration > 0 || userFields.DepartureDate == "" || userFields.ReturnDate == "" {
		return userFields
	}
	depart, err := time.Parse(dateLayout, userFields.DepartureDate)
	if err != nil {
		return userFields
	}
	ret, err := time.Parse(dateLayout, userFields.ReturnDate)
	if err != nil {
		return userFields
	}
	days := int(math.Ceil(ret.Sub(depart).Hours() / 24))
	if days > 0 {
		userFields.Duration = days
	}
	return userFields
}

// ResolveTrip applies the defaults to a merged request.
func ResolveTrip(req models.TravelRequest, d TripDefaults) models.TravelRequest {
	if req.Duration <= 0 {
		req.Duration = d.Days
	}
	if req.HotelBudget <= 0 {
		req.HotelBudget = models.Money(d.HotelBudget)
	}
	return req
}
