package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Purpose is the inferred reason for a trip.
type Purpose string

const (
	PurposeBusiness Purpose = "business"
	PurposeLeisure  Purpose = "leisure"
	PurposeMixed    Purpose = "mixed"
)

// BudgetTier is the spending level of a trip.
type BudgetTier string

const (
	BudgetLow    BudgetTier = "budget"
	BudgetMid    BudgetTier = "mid-range"
	BudgetLuxury BudgetTier = "luxury"
)

// ActivityCategory tags an itinerary activity.
type ActivityCategory string

const (
	CategoryBusiness  ActivityCategory = "business"
	CategoryLeisure   ActivityCategory = "leisure"
	CategoryDining    ActivityCategory = "dining"
	CategoryTransport ActivityCategory = "transport"
	CategorySurprise  ActivityCategory = "surprise"
)

// TimeSlot is the part of the day an activity occupies.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
)

// Money is an amount in whole or fractional currency units. It decodes from a JSON
// number, a numeric string (form input) or an object carrying an "amount" field.
type Money float64

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
		if s == "" {
			*m = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("money: %q is not a number", s)
		}
		*m = Money(v)
		return nil
	case '{':
		var obj struct {
			Amount *Money `json:"amount"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.Amount == nil {
			*m = 0
			return nil
		}
		*m = *obj.Amount
		return nil
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("money: %w", err)
		}
		*m = Money(v)
		return nil
	}
}

// TravelRequest is the structured description of a trip. The same record carries the
// fields extracted from free text, the fields a user typed into the form, and the merged
// result; a zero value always means "absent".
type TravelRequest struct {
	Description     string     `json:"description"`
	Destination     string     `json:"destination,omitempty"`
	DestinationCode string     `json:"destinationCode,omitempty" validate:"omitempty,len=3,alpha"`
	Duration        int        `json:"duration,omitempty" validate:"omitempty,min=1"`
	Purpose         Purpose    `json:"purpose,omitempty" validate:"omitempty,oneof=business leisure mixed"`
	Budget          BudgetTier `json:"budget,omitempty" validate:"omitempty,oneof=budget mid-range luxury"`

	// Form-only fields.
	Origin        string `json:"origin,omitempty"`
	DepartureDate string `json:"departureDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReturnDate    string `json:"returnDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FlightBudget  Money  `json:"flightBudget,omitempty" validate:"gte=0"`
	HotelBudget   Money  `json:"hotelBudget,omitempty" validate:"gte=0"`
}

// Endpoint is one end of a flight leg.
type Endpoint struct {
	Airport string `json:"airport" validate:"required"`
	Time    string `json:"time"`
	Date    string `json:"date"`
}

// FlightOffer is one option returned by the flight search provider.
type FlightOffer struct {
	ID         string   `json:"id"`
	Airline    string   `json:"airline"`
	Departure  Endpoint `json:"departure"`
	Arrival    Endpoint `json:"arrival"`
	Price      Money    `json:"price"`
	BookingURL string   `json:"bookingUrl,omitempty"`
	// Synthetic marks the fallback offer used when the provider could not answer.
	Synthetic bool `json:"synthetic,omitempty"`
}

// Flight is a leg of the synthesized plan.
type Flight struct {
	ID         string   `json:"id"`
	Airline    string   `json:"airline"`
	Departure  Endpoint `json:"departure"`
	Arrival    Endpoint `json:"arrival"`
	Price      float64  `json:"price" validate:"gte=0"`
	BookingURL string   `json:"bookingUrl"`
}

type Hotel struct {
	ID            string   `json:"id"`
	Name          string   `json:"name" validate:"required"`
	Address       string   `json:"address"`
	Rating        float64  `json:"rating" validate:"gte=0,lte=5"`
	PricePerNight float64  `json:"pricePerNight" validate:"gte=0"`
	CheckIn       string   `json:"checkIn"`
	CheckOut      string   `json:"checkOut"`
	BookingURL    string   `json:"bookingUrl"`
	Amenities     []string `json:"amenities"`
}

type Activity struct {
	ID          string           `json:"id"`
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Location    string           `json:"location"`
	Duration    string           `json:"duration"`
	Price       *float64         `json:"price,omitempty" validate:"omitempty,gte=0"`
	BookingURL  string           `json:"bookingUrl,omitempty"`
	Category    ActivityCategory `json:"category" validate:"required,oneof=business leisure dining transport surprise"`
	TimeSlot    TimeSlot         `json:"timeSlot" validate:"required,oneof=morning afternoon evening"`
}

// DayItinerary is one day of the plan.
type DayItinerary struct {
	Date       string     `json:"date"`
	Activities []Activity `json:"activities" validate:"dive"`
}

type CalendarEvent struct {
	Title       string `json:"title" validate:"required"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// PriceSource says where the flight figures of a plan came from.
type PriceSource string

const (
	PriceLive        PriceSource = "live"
	PriceEstimate    PriceSource = "estimate"
	PriceSynthesized PriceSource = "synthesized"
)

// PlanPricing records the inputs of the last cost computation.
type PlanPricing struct {
	FlightPriceSource  PriceSource `json:"flightPriceSource"`
	FlightPrice        float64     `json:"flightPrice"`
	HotelPerNight      float64     `json:"hotelPerNight"`
	Nights             int         `json:"nights"`
	ActivitiesEstimate float64     `json:"activitiesEstimate"`
}

// TravelPlan is the day-by-day plan produced by a pipeline run.
type TravelPlan struct {
	ID             string          `json:"id"`
	Destination    string          `json:"destination" validate:"required"`
	Duration       int             `json:"duration"`
	OutboundFlight *Flight         `json:"outboundFlight" validate:"required"`
	ReturnFlight   *Flight         `json:"returnFlight" validate:"required"`
	Hotel          *Hotel          `json:"hotel" validate:"required"`
	Itinerary      []DayItinerary  `json:"itinerary" validate:"required,dive"`
	TotalCost      int             `json:"totalCost" validate:"gte=0"`
	CalendarEvents []CalendarEvent `json:"calendarEvents" validate:"dive"`
	Pricing        PlanPricing     `json:"pricing"`
}

// SurpriseCount returns how many activities across the plan are tagged as surprises.
func (p *TravelPlan) SurpriseCount() int {
	n := 0
	for _, day := range p.Itinerary {
		for _, a := range day.Activities {
			if a.Category == CategorySurprise {
				n++
			}
		}
	}
	return n
}
