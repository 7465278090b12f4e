package planner

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"wanderplan/models"
	ai "wanderplan/services/intelligence"
	"wanderplan/utils"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// extractedFields is the only shape the extraction prompt asks for.
type extractedFields struct {
	Destination     string `json:"destination"`
	DestinationCode string `json:"destinationCode"`
	Duration        int    `json:"duration"`
	Purpose         string `json:"purpose"`
	Budget          string `json:"budget"`
}

// RequestExtractor turns free text into a TravelRequest. It never fails: anything it
// cannot understand degrades to a request carrying only the description.
type RequestExtractor struct {
	ai      TravelAI
	timeout time.Duration
	logger  *zap.Logger
}

func NewRequestExtractor(travelAI TravelAI, timeout time.Duration, logger *zap.Logger) *RequestExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestExtractor{ai: travelAI, timeout: timeout, logger: logger}
}

func (e *RequestExtractor) Extract(ctx context.Context, freeText string) models.TravelRequest {
	fallback := models.TravelRequest{Description: freeText}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	raw, err := e.ai.CompleteExtraction(ctx, buildExtractionPrompt(freeText))
	if err != nil {
		e.logger.Warn("Extraction call failed, continuing with description only", zap.Error(err))
		utils.Degradations.WithLabelValues("extraction_call").Inc()
		return fallback
	}

	req, err := parseExtraction(raw, freeText)
	if err != nil {
		e.logger.Warn("Could not parse extraction response, continuing with description only",
			zap.Error(err),
			zap.Int("response_chars", len(raw)),
		)
		utils.Degradations.WithLabelValues("extraction_parse").Inc()
		return fallback
	}
	return req
}

// parseExtraction decodes and validates a completion into a request. Failures are
// *ExtractionParseError.
func parseExtraction(raw, freeText string) (models.TravelRequest, error) {
	body := ai.ExtractJSON(raw)
	if body == "" {
		return models.TravelRequest{}, &ExtractionParseError{Raw: raw, Err: errors.New("no JSON object in response")}
	}

	var fields extractedFields
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return models.TravelRequest{}, &ExtractionParseError{Raw: raw, Err: err}
	}

	req := models.TravelRequest{
		Description:     freeText,
		Destination:     strings.TrimSpace(fields.Destination),
		DestinationCode: strings.ToUpper(strings.TrimSpace(fields.DestinationCode)),
		Duration:        fields.Duration,
		Purpose:         models.Purpose(strings.ToLower(strings.TrimSpace(fields.Purpose))),
		Budget:          models.BudgetTier(strings.ToLower(strings.TrimSpace(fields.Budget))),
	}
	if err := validate.Struct(req); err != nil {
		return models.TravelRequest{}, &ExtractionParseError{Raw: raw, Err: err}
	}
	return req, nil
}
