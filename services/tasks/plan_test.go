package tasks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderplan/models"
)

func TestNewPlanTask(t *testing.T) {
	payload := models.PlanTaskPayload{
		RunID:      "run-1",
		Request:    "Paris for work and fun",
		TravelData: models.TravelRequest{DepartureDate: "2024-03-15", HotelBudget: 180},
	}

	task, opts, err := NewPlanTask(payload)

	require.NoError(t, err)
	assert.Equal(t, TypeGeneratePlan, task.Type())
	assert.Len(t, opts, 2)

	var got models.PlanTaskPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &got))
	assert.Equal(t, payload, got)
}
