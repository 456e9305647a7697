package models

import (
	"time"

	"github.com/dukex/flyout/pkg/eventlog"
)

type RunStatus string

const (
	RunStatusIdle      RunStatus = "idle"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

type StepName string

const (
	StepValidate StepName = "validate"
	StepFlight   StepName = "flight"
	StepArrival  StepName = "arrival"
	StepRide     StepName = "ride"
	StepFood     StepName = "food"
	StepLodging  StepName = "lodging"
	StepCalendar StepName = "calendar"
	StepSummary  StepName = "summary"
)

// ErrorKind classifies why a step did not succeed.
type ErrorKind string

const (
	ErrorKindValidation  ErrorKind = "validation"
	ErrorKindTransport   ErrorKind = "transport"
	ErrorKindApplication ErrorKind = "application"
	ErrorKindOptional    ErrorKind = "optional"
)

type ArrivalSource string

const (
	ArrivalFromService ArrivalSource = "service"
	ArrivalFallback    ArrivalSource = "fallback"
)

// Schedule holds the times derived while a run progresses.
type Schedule struct {
	Departure     time.Time     `json:"departure,omitzero"`
	Arrival       time.Time     `json:"arrival,omitzero"`
	ArrivalSource ArrivalSource `json:"arrivalSource,omitempty"`
	Pickup        time.Time     `json:"pickup,omitzero"`
	Meal          time.Time     `json:"meal,omitzero"`
	CheckIn       time.Time     `json:"checkIn,omitzero"`
	CheckOut      time.Time     `json:"checkOut,omitzero"`
	Nights        int           `json:"nights,omitempty"`
}

type Failure struct {
	Step    StepName  `json:"step"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// RunState is created when a run starts and handed back to the caller when it ends.
type RunState struct {
	ID        string
	Status    RunStatus
	StepIndex int
	Input     OrchestrationInput
	Submitted time.Time
	Schedule  Schedule
	Log       *eventlog.Log
	Results   ResultSet
	Failure   *Failure
}

func NewRunState(id string, input OrchestrationInput, log *eventlog.Log, submitted time.Time) *RunState {
	return &RunState{
		ID:        id,
		Status:    RunStatusIdle,
		Input:     input,
		Submitted: submitted,
		Log:       log,
	}
}

func (s *RunState) IsRunning() bool {
	return s.Status == RunStatusRunning
}

// Fail records the failure and ends the run.
func (s *RunState) Fail(step StepName, kind ErrorKind, message string) {
	s.Status = RunStatusFailed
	s.Failure = &Failure{Step: step, Kind: kind, Message: message}
}
