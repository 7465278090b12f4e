package planner

import (
	"errors"
	"fmt"
	"strings"

	"wanderplan/models"
)

// InputError means the user has to resubmit; Field names the offending input.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ExtractionParseError means the completion text was not a travel request. It never
// leaves the extractor.
type ExtractionParseError struct {
	Raw string
	Err error
}

func (e *ExtractionParseError) Error() string {
	return fmt.Sprintf("extraction parse error: %v", e.Err)
}

func (e *ExtractionParseError) Unwrap() error {
	return e.Err
}

// SynthesisParseError means the completion text could not be read as a travel plan.
// It is fatal for the run.
type SynthesisParseError struct {
	Reason string
	Err    error
}

func (e *SynthesisParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("synthesis parse error: %s: %v", e.Reason, e.Err)
	}
	return "synthesis parse error: " + e.Reason
}

func (e *SynthesisParseError) Unwrap() error {
	return e.Err
}

// ShapeViolationError means the plan decoded but breaks the itinerary contract. It
// unwraps to a *SynthesisParseError so callers matching on the parent kind see it too.
type ShapeViolationError struct {
	Violations []string
}

func (e *ShapeViolationError) Error() string {
	return "plan shape violation: " + strings.Join(e.Violations, "; ")
}

func (e *ShapeViolationError) Unwrap() error {
	return &SynthesisParseError{Reason: "plan shape violation"}
}

// CompletionError means the completion service did not answer at all.
type CompletionError struct {
	Stage models.Stage
	Err   error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion failed during %s: %v", e.Stage, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Error kinds reported on terminal events.
const (
	KindInput          = "input"
	KindSynthesisParse = "synthesis_parse"
	KindShapeViolation = "shape_violation"
	KindCompletion     = "completion"
	KindInternal       = "internal"
)

// ErrorKind maps a pipeline error to its reported kind. The most specific kind wins.
func ErrorKind(err error) string {
	var (
		inputErr *InputError
		shapeErr *ShapeViolationError
		parseErr *SynthesisParseError
		complErr *CompletionError
	)
	switch {
	case errors.As(err, &inputErr):
		return KindInput
	case errors.As(err, &shapeErr):
		return KindShapeViolation
	case errors.As(err, &parseErr):
		return KindSynthesisParse
	case errors.As(err, &complErr):
		return KindCompletion
	default:
		return KindInternal
	}
}

// IsInputError reports whether err asks the user to fix their input.
func IsInputError(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr)
}
