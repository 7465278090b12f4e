package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"wanderplan/models"
	"wanderplan/services/planner"
	"wanderplan/services/runs"
	"wanderplan/services/tasks"
	"wanderplan/utils"
)

const planFailureMessage = "Could not generate your plan"

// PlanPipeline is the orchestrator surface the HTTP layer drives.
type PlanPipeline interface {
	RunWithID(ctx context.Context, runID, freeText string, userFields models.TravelRequest, observe planner.Observer) (*models.TravelPlan, error)
	StreamWithID(ctx context.Context, runID, freeText string, userFields models.TravelRequest) (<-chan models.StageEvent, error)
	ParseRequest(ctx context.Context, freeText string, userFields models.TravelRequest) (models.TravelRequest, error)
	FetchFlights(ctx context.Context, req models.TravelRequest) models.FlightOutcome
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PlanRequest is the body of every plan endpoint.
type PlanRequest struct {
	Request    string               `json:"request"`
	TravelData models.TravelRequest `json:"travelData"`
}

// FetchFlightsRequest accepts either a full request or the bare destination fields.
type FetchFlightsRequest struct {
	Destination     string `json:"destination"`
	DestinationCode string `json:"destinationCode"`
	Origin          string `json:"origin"`
	DepartureDate   string `json:"departureDate"`
}

type PlannerHandler struct {
	Pipeline PlanPipeline
	Runs     runs.Store
	// Queue is nil when async runs are disabled.
	Queue    TaskEnqueuer
	Logger   *zap.Logger
	validate *validator.Validate
}

func NewPlannerHandler(pipeline PlanPipeline, store runs.Store, queue TaskEnqueuer, logger *zap.Logger) *PlannerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &PlannerHandler{
		Pipeline: pipeline,
		Runs:     store,
		Queue:    queue,
		Logger:   logger,
		validate: v,
	}
}

// bindPlanRequest decodes and checks the body. It writes the 400 response itself and
// reports whether the handler should continue.
func (h *PlannerHandler) bindPlanRequest(c *gin.Context) (PlanRequest, bool) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.Logger.Warn("Invalid plan request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return req, false
	}
	if strings.TrimSpace(req.Request) == "" {
		utils.JSONFieldError(c, http.StatusBadRequest, "description", "Please describe your trip")
		return req, false
	}
	if err := h.validate.Struct(req.TravelData); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			utils.JSONFieldError(c, http.StatusBadRequest, fe.Field(), "Invalid value for "+fe.Field())
			return req, false
		}
		utils.JSONError(c, http.StatusBadRequest, "Invalid travel data", err.Error())
		return req, false
	}
	return req, true
}

// respondRunError maps a pipeline error onto the public error contract.
func (h *PlannerHandler) respondRunError(c *gin.Context, runID string, err error, stages map[models.Stage]models.StageState) {
	var inputErr *planner.InputError
	if errors.As(err, &inputErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"runId":   runID,
			"error":   inputErr.Message,
			"field":   inputErr.Field,
			"stages":  stages,
		})
		return
	}
	h.Logger.Error("Plan generation failed",
		zap.String("run_id", runID),
		zap.String("kind", planner.ErrorKind(err)),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"runId":   runID,
		"error":   planFailureMessage,
		"stages":  stages,
	})
}

// CreatePlanHandler runs the whole pipeline within the request.
func (h *PlannerHandler) CreatePlanHandler(c *gin.Context) {
	req, ok := h.bindPlanRequest(c)
	if !ok {
		return
	}

	runID := uuid.NewString()
	stages := make(map[models.Stage]models.StageState, len(models.Stages))
	observe := func(ev models.StageEvent) {
		if ev.Stage != models.StageRun {
			stages[ev.Stage] = ev.State
		}
	}

	plan, err := h.Pipeline.RunWithID(c.Request.Context(), runID, req.Request, req.TravelData, observe)
	if err != nil {
		h.respondRunError(c, runID, err, stages)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"runId":      runID,
		"travelPlan": plan,
		"stages":     stages,
	})
}

// publicEvent strips internal error detail from an event before it leaves the server.
func publicEvent(ev models.StageEvent) models.StageEvent {
	if ev.Error == "" {
		return ev
	}
	if ev.ErrorKind != planner.KindInput {
		ev.Error = planFailureMessage
	}
	return ev
}

// StreamPlanHandler runs the pipeline and pushes every transition as a server-sent
// "stage" event, followed by one "result" event.
func (h *PlannerHandler) StreamPlanHandler(c *gin.Context) {
	req, ok := h.bindPlanRequest(c)
	if !ok {
		return
	}

	runID := uuid.NewString()
	events, err := h.Pipeline.StreamWithID(c.Request.Context(), runID, req.Request, req.TravelData)
	if err != nil {
		h.respondRunError(c, runID, err, nil)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		ev, open := <-events
		if !open {
			return false
		}
		ev = publicEvent(ev)
		if ev.Stage != models.StageRun {
			c.SSEvent("stage", ev)
			return true
		}

		result := gin.H{"success": ev.State == models.StateCompleted, "runId": runID}
		if ev.State == models.StateCompleted {
			result["travelPlan"] = ev.Payload
		} else {
			result["error"] = ev.Error
			if ev.ErrorField != "" {
				result["field"] = ev.ErrorField
			}
		}
		c.SSEvent("result", result)
		return true
	})
}

// EnqueuePlanHandler queues a run and answers with its id right away.
func (h *PlannerHandler) EnqueuePlanHandler(c *gin.Context) {
	if h.Queue == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Async planning is not enabled", "")
		return
	}
	req, ok := h.bindPlanRequest(c)
	if !ok {
		return
	}

	runID := uuid.NewString()
	if err := runs.NewRecorder(h.Runs, runID, h.Logger).Start(c.Request.Context()); err != nil {
		h.Logger.Error("Failed to record queued run", zap.String("run_id", runID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not queue your plan", "")
		return
	}

	task, opts, err := tasks.NewPlanTask(models.PlanTaskPayload{
		RunID:      runID,
		Request:    req.Request,
		TravelData: req.TravelData,
	})
	if err == nil {
		_, err = h.Queue.Enqueue(task, opts...)
	}
	if err != nil {
		h.Logger.Error("Failed to enqueue plan task", zap.String("run_id", runID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not queue your plan", "")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"success": true, "runId": runID})
}

// GetRunHandler returns the latest snapshot of a run.
func (h *PlannerHandler) GetRunHandler(c *gin.Context) {
	runID := c.Param("id")
	snap, err := h.Runs.Get(c.Request.Context(), runID)
	if errors.Is(err, runs.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "Run not found", runID)
		return
	}
	if err != nil {
		h.Logger.Error("Failed to load run", zap.String("run_id", runID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not load run", "")
		return
	}
	if snap.Error != "" && snap.ErrorKind != planner.KindInput {
		snap.Error = planFailureMessage
	}
	c.JSON(http.StatusOK, snap)
}

// ParseDestinationHandler runs extraction and merge only.
func (h *PlannerHandler) ParseDestinationHandler(c *gin.Context) {
	req, ok := h.bindPlanRequest(c)
	if !ok {
		return
	}
	parsed, err := h.Pipeline.ParseRequest(c.Request.Context(), req.Request, req.TravelData)
	if err != nil {
		h.respondRunError(c, "", err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "request": parsed})
}

// FetchFlightsHandler searches flights for a destination, falling back to the estimate
// offer like a full run does.
func (h *PlannerHandler) FetchFlightsHandler(c *gin.Context) {
	var body FetchFlightsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(body.Destination) == "" {
		utils.JSONFieldError(c, http.StatusBadRequest, "destination", "Please name a destination")
		return
	}
	outcome := h.Pipeline.FetchFlights(c.Request.Context(), models.TravelRequest{
		Destination:     body.Destination,
		DestinationCode: strings.ToUpper(body.DestinationCode),
		Origin:          body.Origin,
		DepartureDate:   body.DepartureDate,
	})
	c.JSON(http.StatusOK, gin.H{"success": true, "flights": outcome})
}
