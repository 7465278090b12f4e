package planner

import (
	"strings"
	"text/template"

	"wanderplan/models"
)

var extractionTemplate = template.Must(template.New("extraction").Parse(`Parse this travel request and extract key information:
"{{.}}"

Return ONLY a JSON object with these fields:
- destination: string (the main destination city or country, e.g. "Paris", "Tokyo", "London")
- destinationCode: string (3-letter airport code for the destination, e.g. "CDG" for Paris, "NRT" for Tokyo)
- duration: number (days; if not specified assume 7)
- purpose: "business" | "leisure" | "mixed" (infer from context)
- budget: "budget" | "mid-range" | "luxury" (infer from context)

Omit a field you cannot infer. Do not add other fields.

Examples:
"Paris for work and fun" -> {"destination": "Paris", "destinationCode": "CDG", "purpose": "mixed"}
"Tokyo cultural experience" -> {"destination": "Tokyo", "destinationCode": "NRT", "purpose": "leisure"}
"London business meetings" -> {"destination": "London", "destinationCode": "LHR", "purpose": "business"}
`))

// buildExtractionPrompt embeds the free text verbatim.
func buildExtractionPrompt(freeText string) string {
	var sb strings.Builder
	// The template only interpolates a string; Execute cannot fail.
	_ = extractionTemplate.Execute(&sb, freeText)
	return sb.String()
}

type synthesisData struct {
	Request    models.TravelRequest
	Balance    string
	FlightHint *models.FlightOffer
}

var synthesisTemplate = template.Must(template.New("synthesis").Parse(`Generate a detailed {{.Request.Duration}}-day travel plan for:
- Destination: {{.Request.Destination}}
- Duration: {{.Request.Duration}} days
- Purpose: {{.Request.Purpose}}
- Budget: {{.Request.Budget}}
{{- if .Request.DepartureDate}}
- Departure date: {{.Request.DepartureDate}}
{{- end}}
{{- if .Request.ReturnDate}}
- Return date: {{.Request.ReturnDate}}
{{- end}}
{{- if .Request.HotelBudget}}
- Hotel budget per night: {{.Request.HotelBudget}}
{{- end}}
{{- if .FlightHint}}
- Live flight pricing: best offer {{.FlightHint.Price}} per leg{{if .FlightHint.Airline}} with {{.FlightHint.Airline}}{{end}}. Use this price for both flights.
{{- end}}

Return ONLY a JSON object with this EXACT structure:
{
  "id": "unique-id",
  "destination": "{{.Request.Destination}}",
  "duration": {{.Request.Duration}},
  "outboundFlight": {
    "id": "flight-out-1",
    "airline": "Example Airlines",
    "departure": {"airport": "JFK", "time": "14:30", "date": "2024-03-15"},
    "arrival": {"airport": "CDG", "time": "08:15", "date": "2024-03-16"},
    "price": 650,
    "bookingUrl": "https://example.com/book"
  },
  "returnFlight": {
    "id": "flight-ret-1",
    "airline": "Example Airlines",
    "departure": {"airport": "CDG", "time": "11:20", "date": "2024-03-22"},
    "arrival": {"airport": "JFK", "time": "15:45", "date": "2024-03-22"},
    "price": 650,
    "bookingUrl": "https://example.com/book"
  },
  "hotel": {
    "id": "hotel-1",
    "name": "Example Hotel",
    "address": "123 Example Street",
    "rating": 4.5,
    "pricePerNight": 200,
    "checkIn": "2024-03-16",
    "checkOut": "2024-03-22",
    "bookingUrl": "https://example.com/book",
    "amenities": ["WiFi", "Breakfast", "Gym"]
  },
  "itinerary": [
    {
      "date": "2024-03-16",
      "activities": [
        {
          "id": "act-1",
          "name": "Airport Transfer",
          "description": "Travel from airport to hotel",
          "location": "CDG to Hotel",
          "duration": "1 hour",
          "category": "transport",
          "timeSlot": "morning"
        },
        {
          "id": "act-2",
          "name": "Business Meeting",
          "description": "Client presentation",
          "location": "Business District",
          "duration": "2 hours",
          "price": 0,
          "category": "business",
          "timeSlot": "afternoon"
        }
      ]
    }
  ],
  "totalCost": 2500,
  "calendarEvents": [
    {
      "title": "Flight to {{.Request.Destination}}",
      "start": "2024-03-15T14:30:00",
      "end": "2024-03-16T08:15:00",
      "location": "JFK Airport"
    }
  ]
}

Requirements:
- The itinerary array must contain EXACTLY {{.Request.Duration}} objects, one for each day, no more and no fewer
- Give EACH day activities in the morning, afternoon and evening time slots
- "category" is one of: business, leisure, dining, transport, surprise
- "timeSlot" is one of: morning, afternoon, evening
- Include EXACTLY ONE activity in the whole plan with "category": "surprise"
- {{.Balance}}
- Use realistic prices and locations for {{.Request.Destination}}
- Ensure activities flow logically day by day
- Respond with the JSON object only, without commentary or markdown
`))

// balanceFor describes the business/leisure mix expected for a purpose.
func balanceFor(p models.Purpose) string {
	switch p {
	case models.PurposeBusiness:
		return "Purpose is business: most activities are business-tagged, with some dining and leisure in the evenings"
	case models.PurposeLeisure:
		return "Purpose is leisure: most activities are leisure-tagged, with no business activities"
	default:
		return "Purpose is mixed: balance business-tagged and leisure-tagged activities across the trip"
	}
}

func buildSynthesisPrompt(req models.TravelRequest, hint *models.FlightOffer) (string, error) {
	var sb strings.Builder
	err := synthesisTemplate.Execute(&sb, synthesisData{
		Request:    req,
		Balance:    balanceFor(req.Purpose),
		FlightHint: hint,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
