package planner

import (
	"fmt"
	"strings"

	"wanderplan/models"
)

// slotHours is the start and end hour used when an activity is placed on a calendar.
var slotHours = map[models.TimeSlot][2]int{
	models.SlotMorning:   {9, 12},
	models.SlotAfternoon: {14, 17},
	models.SlotEvening:   {19, 22},
}

// deriveCalendarEvents builds one event per flight and one per dated activity.
func deriveCalendarEvents(plan *models.TravelPlan) []models.CalendarEvent {
	var events []models.CalendarEvent

	if ev, ok := flightEvent(plan.OutboundFlight, "Flight to "+plan.Destination); ok {
		events = append(events, ev)
	}
	for _, day := range plan.Itinerary {
		if day.Date == "" {
			continue
		}
		for _, a := range day.Activities {
			hours, ok := slotHours[a.TimeSlot]
			if !ok {
				continue
			}
			events = append(events, models.CalendarEvent{
				Title:       a.Name,
				Start:       fmt.Sprintf("%sT%02d:00:00", day.Date, hours[0]),
				End:         fmt.Sprintf("%sT%02d:00:00", day.Date, hours[1]),
				Location:    a.Location,
				Description: a.Description,
			})
		}
	}
	if ev, ok := flightEvent(plan.ReturnFlight, "Flight home from "+plan.Destination); ok {
		events = append(events, ev)
	}
	return events
}

func flightEvent(f *models.Flight, title string) (models.CalendarEvent, bool) {
	if f == nil || f.Departure.Date == "" {
		return models.CalendarEvent{}, false
	}
	ev := models.CalendarEvent{
		Title:    title,
		Start:    stamp(f.Departure),
		End:      stamp(f.Arrival),
		Location: strings.TrimSpace(f.Departure.Airport + " Airport"),
	}
	if f.Airline != "" {
		ev.Description = f.Airline
	}
	return ev, true
}

func stamp(e models.Endpoint) string {
	if e.Date == "" {
		return ""
	}
	if e.Time == "" {
		return e.Date
	}
	return e.Date + "T" + e.Time + ":00"
}
