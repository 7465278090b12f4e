package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"wanderplan/models"
)

const TypeGeneratePlan = "plan:generate"

// NewPlanTask builds the task for one async run. Runs are never retried: a failed run is
// final and visible through its snapshot.
func NewPlanTask(payload models.PlanTaskPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeGeneratePlan, b)
	opts := []asynq.Option{
		asynq.MaxRetry(0),
		asynq.TaskID(payload.RunID),
	}
	return task, opts, nil
}
