package planner

import (
	"math"

	"wanderplan/models"
)

// CostPolicy holds the constants of the trip cost formula.
type CostPolicy struct {
	// ActivityEstimate is the flat amount added for activities and incidentals.
	ActivityEstimate float64
	// BaselineFlightPrice is used when the best offer carries no usable price.
	BaselineFlightPrice float64
}

var DefaultCostPolicy = CostPolicy{ActivityEstimate: 500, BaselineFlightPrice: 650}

// Reconcile reconciles with the default policy.
func Reconcile(plan models.TravelPlan, offers []models.FlightOffer, hotelBudgetPerNight float64, duration int) models.TravelPlan {
	return DefaultCostPolicy.Reconcile(plan, offers, hotelBudgetPerNight, duration)
}

// Reconcile overwrites both flight prices with the first offer's price and recomputes
// the total as round(price*2 + hotel*duration + activities). With no offers the plan is
// returned unchanged. The input plan is never modified.
func (p CostPolicy) Reconcile(plan models.TravelPlan, offers []models.FlightOffer, hotelBudgetPerNight float64, duration int) models.TravelPlan {
	if len(offers) == 0 {
		return plan
	}
	best := offers[0]
	price := float64(best.Price)
	if price <= 0 {
		price = p.BaselineFlightPrice
	}

	if plan.OutboundFlight != nil {
		out := *plan.OutboundFlight
		out.Price = price
		plan.OutboundFlight = &out
	}
	if plan.ReturnFlight != nil {
		ret := *plan.ReturnFlight
		ret.Price = price
		plan.ReturnFlight = &ret
	}

	plan.TotalCost = int(math.Round(price*2 + hotelBudgetPerNight*float64(duration) + p.ActivityEstimate))

	source := models.PriceLive
	if best.Synthetic {
		source = models.PriceEstimate
	}
	plan.Pricing = models.PlanPricing{
		FlightPriceSource:  source,
		FlightPrice:        price,
		HotelPerNight:      hotelBudgetPerNight,
		Nights:             duration,
		ActivitiesEstimate: p.ActivityEstimate,
	}
	return plan
}
