package models

import "time"

// Stage is one discrete phase of a pipeline run.
type Stage string

const (
	StageParsing   Stage = "parsing"
	StageFlights   Stage = "flights"
	StageItinerary Stage = "itinerary"
	// StageRun carries the terminal event of the whole run.
	StageRun Stage = "run"
)

// Stages lists the real stages in execution order.
var Stages = []Stage{StageParsing, StageFlights, StageItinerary}

// MaxRunEvents bounds the events of one run: a pending event per stage, loading and a
// terminal event per stage, and the terminal run event.
const MaxRunEvents = 10

type StageState string

const (
	StatePending   StageState = "pending"
	StateLoading   StageState = "loading"
	StateCompleted StageState = "completed"
	StateFailed    StageState = "failed"
)

// Terminal reports whether no further transition can follow.
func (s StageState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// StageEvent is emitted on every stage transition. Payload is set on completed events:
// *TravelRequest for parsing, *FlightOutcome for flights and *TravelPlan for itinerary
// and for the terminal run event.
type StageEvent struct {
	RunID      string     `json:"runId"`
	Stage      Stage      `json:"stage"`
	State      StageState `json:"state"`
	Payload    any        `json:"payload,omitempty"`
	Error      string     `json:"error,omitempty"`
	ErrorKind  string     `json:"errorKind,omitempty"`
	ErrorField string     `json:"errorField,omitempty"`
	At         time.Time  `json:"at"`
}

// FlightOutcome is the result of the flights stage. Live is false when the offers are the
// synthetic fallback; Failure then describes why the provider could not be used.
type FlightOutcome struct {
	Offers  []FlightOffer `json:"offers"`
	Live    bool          `json:"live"`
	Failure string        `json:"failure,omitempty"`
}

// Best returns the first offer, which the pipeline treats as the best one.
func (o *FlightOutcome) Best() *FlightOffer {
	if o == nil || len(o.Offers) == 0 {
		return nil
	}
	return &o.Offers[0]
}

// RunSnapshot is the folded view of every event a run has emitted so far.
type RunSnapshot struct {
	RunID      string               `json:"runId"`
	State      StageState           `json:"state"`
	Stages     map[Stage]StageState `json:"stages"`
	Request    *TravelRequest       `json:"request,omitempty"`
	Flights    *FlightOutcome       `json:"flights,omitempty"`
	Plan       *TravelPlan          `json:"travelPlan,omitempty"`
	Error      string               `json:"error,omitempty"`
	ErrorKind  string               `json:"errorKind,omitempty"`
	ErrorField string               `json:"errorField,omitempty"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

func NewRunSnapshot(runID string) *RunSnapshot {
	stages := make(map[Stage]StageState, len(Stages))
	for _, s := range Stages {
		stages[s] = StatePending
	}
	return &RunSnapshot{
		RunID:     runID,
		State:     StatePending,
		Stages:    stages,
		UpdatedAt: time.Now(),
	}
}

// Apply folds one event into the snapshot.
func (s *RunSnapshot) Apply(ev StageEvent) {
	s.UpdatedAt = ev.At
	if ev.Stage == StageRun {
		s.State = ev.State
		s.Error = ev.Error
		s.ErrorKind = ev.ErrorKind
		s.ErrorField = ev.ErrorField
		if plan, ok := ev.Payload.(*TravelPlan); ok {
			s.Plan = plan
		}
		return
	}

	s.Stages[ev.Stage] = ev.State
	if s.State == StatePending && ev.State != StatePending {
		s.State = StateLoading
	}
	switch p := ev.Payload.(type) {
	case *TravelRequest:
		s.Request = p
	case *FlightOutcome:
		s.Flights = p
	case *TravelPlan:
		s.Plan = p
	}
}

// PlanTaskPayload is the queued form of an async run.
type PlanTaskPayload struct {
	RunID      string        `json:"runId"`
	Request    string        `json:"request"`
	TravelData TravelRequest `json:"travelData"`
}
