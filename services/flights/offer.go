package flights

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"wanderplan/models"
)

const (
	fallbackOrigin  = "SFO"
	fallbackAirline = "Mock Airlines"
	fallbackBooking = "https://example.com/book"
)

// flexString decodes metadata that may be a plain string or an object naming a place
// or carrier. Any other shape decodes to "" without failing the offer.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*f = flexString(s)
		}
	case '{':
		var obj struct {
			DisplayCode string `json:"display_code"`
			Code        string `json:"code"`
			Name        string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err == nil {
			*f = flexString(firstNonEmpty(obj.DisplayCode, obj.Code, obj.Name))
		}
	}
	return nil
}

type rawLeg struct {
	DepartureAirport flexString `json:"departure_airport"`
	ArrivalAirport   flexString `json:"arrival_airport"`
	DepartureTime    flexString `json:"departure_time"`
	ArrivalTime      flexString `json:"arrival_time"`
	Departure        flexString `json:"departure"`
	Arrival          flexString `json:"arrival"`
	Carrier          flexString `json:"carrier"`
}

type rawPricingOption struct {
	Price      models.Money `json:"price"`
	Agent      flexString   `json:"agent"`
	BookingURL flexString   `json:"booking_url"`
	URL        flexString   `json:"url"`
}

// rawOffer is one dataset item of the Skyscanner actor. Only the price is relied on;
// everything else is best effort.
type rawOffer struct {
	ID             flexString         `json:"id"`
	CheapestPrice  models.Money       `json:"cheapest_price"`
	Price          models.Money       `json:"price"`
	Legs           []rawLeg           `json:"legs"`
	PricingOptions []rawPricingOption `json:"pricing_options"`
}

func (r rawOffer) toOffer(index int) models.FlightOffer {
	offer := models.FlightOffer{
		ID:    string(r.ID),
		Price: r.CheapestPrice,
	}
	if offer.ID == "" {
		offer.ID = fmt.Sprintf("offer-%d", index+1)
	}
	if offer.Price <= 0 {
		offer.Price = r.Price
	}

	if len(r.PricingOptions) > 0 {
		opt := r.PricingOptions[0]
		if offer.Price <= 0 {
			offer.Price = opt.Price
		}
		offer.Airline = string(opt.Agent)
		offer.BookingURL = firstNonEmpty(string(opt.BookingURL), string(opt.URL))
	}

	if len(r.Legs) > 0 {
		first, last := r.Legs[0], r.Legs[len(r.Legs)-1]
		offer.Departure = endpoint(string(first.DepartureAirport), firstNonEmpty(string(first.DepartureTime), string(first.Departure)))
		offer.Arrival = endpoint(string(last.ArrivalAirport), firstNonEmpty(string(last.ArrivalTime), string(last.Arrival)))
		if offer.Airline == "" {
			offer.Airline = string(first.Carrier)
		}
	}
	return offer
}

// endpoint splits an ISO timestamp into date and time; a bare clock time is kept as is.
func endpoint(airport, stamp string) models.Endpoint {
	ep := models.Endpoint{Airport: airport}
	if date, clock, ok := strings.Cut(stamp, "T"); ok {
		ep.Date = date
		if len(clock) >= 5 {
			clock = clock[:5]
		}
		ep.Time = clock
		return ep
	}
	ep.Time = stamp
	return ep
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// decodeOffers parses the provider body. The body must be a JSON array.
func decodeOffers(body []byte) ([]models.FlightOffer, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '[' {
		return nil, fmt.Errorf("expected a JSON array of offers")
	}
	var raw []rawOffer
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode offers: %w", err)
	}
	offers := make([]models.FlightOffer, 0, len(raw))
	for i, r := range raw {
		offers = append(offers, r.toOffer(i))
	}
	return offers, nil
}

// FallbackOffers returns the single synthetic offer used when the provider fails.
func FallbackOffers(req models.TravelRequest, baseline float64) []models.FlightOffer {
	return []models.FlightOffer{{
		ID:         "offer-fallback",
		Airline:    fallbackAirline,
		Departure:  models.Endpoint{Airport: fallbackOrigin, Time: "14:30", Date: req.DepartureDate},
		Arrival:    models.Endpoint{Airport: req.DestinationCode, Time: "08:15"},
		Price:      models.Money(baseline),
		BookingURL: fallbackBooking,
		Synthetic:  true,
	}}
}
