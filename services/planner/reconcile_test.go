package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderplan/models"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name       string
		offers     []models.FlightOffer
		hotel      float64
		days       int
		wantPrice  float64
		wantTotal  int
		wantSource models.PriceSource
	}{
		{
			name:       "live offer",
			offers:     []models.FlightOffer{{Price: 420}, {Price: 380}},
			hotel:      200,
			days:       7,
			wantPrice:  420,
			wantTotal:  420*2 + 200*7 + 500,
			wantSource: models.PriceLive,
		},
		{
			name:       "synthetic fallback",
			offers:     []models.FlightOffer{{Price: 650, Synthetic: true}},
			hotel:      200,
			days:       7,
			wantPrice:  650,
			wantTotal:  650*2 + 200*7 + 500,
			wantSource: models.PriceEstimate,
		},
		{
			name:       "first offer without price uses baseline",
			offers:     []models.FlightOffer{{Price: 0}, {Price: 300}},
			hotel:      150,
			days:       3,
			wantPrice:  650,
			wantTotal:  650*2 + 150*3 + 500,
			wantSource: models.PriceLive,
		},
		{
			name:       "fractional amounts round",
			offers:     []models.FlightOffer{{Price: 199.75}},
			hotel:      89.9,
			days:       2,
			wantPrice:  199.75,
			wantTotal:  1079,
			wantSource: models.PriceLive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := samplePlan("Paris", tt.days, 1)

			got := Reconcile(plan, tt.offers, tt.hotel, tt.days)

			assert.Equal(t, tt.wantPrice, got.OutboundFlight.Price)
			assert.Equal(t, tt.wantPrice, got.ReturnFlight.Price)
			assert.Equal(t, tt.wantTotal, got.TotalCost)
			assert.Equal(t, tt.wantSource, got.Pricing.FlightPriceSource)
			assert.Equal(t, tt.days, got.Pricing.Nights)
		})
	}
}

func TestReconcile_NoOffersLeavesPlanUntouched(t *testing.T) {
	plan := samplePlan("Paris", 2, 1)

	assert.Equal(t, plan, Reconcile(plan, nil, 200, 2))
	assert.Equal(t, plan, Reconcile(plan, []models.FlightOffer{}, 200, 2))
}

func TestReconcile_Idempotent(t *testing.T) {
	plan := samplePlan("Paris", 4, 1)
	offers := []models.FlightOffer{{Price: 512.4}}

	once := Reconcile(plan, offers, 180, 4)
	twice := Reconcile(once, offers, 180, 4)

	assert.Equal(t, once, twice)
}

func TestReconcile_DoesNotModifyInput(t *testing.T) {
	plan := samplePlan("Paris", 2, 1)

	got := Reconcile(plan, []models.FlightOffer{{Price: 420}}, 200, 2)

	require.NotSame(t, plan.OutboundFlight, got.OutboundFlight)
	assert.Equal(t, 999.0, plan.OutboundFlight.Price)
	assert.Equal(t, 999.0, plan.ReturnFlight.Price)
	assert.Equal(t, 1, plan.TotalCost)
}

func TestCostPolicy_CustomConstants(t *testing.T) {
	policy := CostPolicy{ActivityEstimate: 0, BaselineFlightPrice: 800}
	plan := samplePlan("Paris", 1, 1)

	got := policy.Reconcile(plan, []models.FlightOffer{{}}, 100, 1)

	assert.Equal(t, 800*2+100, got.TotalCost)
}
