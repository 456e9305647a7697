// Package web provides the HTTP surface for starting runs and reading their reports.
package web

import (
	"time"

	"github.com/dukex/flyout/pkg/eventlog"
	"github.com/dukex/flyout/pkg/models"
)

// RunReport is the response body of a finished run.
type RunReport struct {
	ID        string           `json:"id"`
	Status    models.RunStatus `json:"status"`
	Submitted time.Time        `json:"submitted"`
	Events    []eventlog.Event `json:"events"`
	Results   models.ResultSet `json:"results"`
	Schedule  models.Schedule  `json:"schedule"`
	Failure   *models.Failure  `json:"failure,omitempty"`
}

// RunStatusResponse answers GET /runs/status.
type RunStatusResponse struct {
	Running bool `json:"running"`
}

func TransformRunReport(state *models.RunState) RunReport {
	events := []eventlog.Event{}
	if state.Log != nil {
		events = state.Log.Events()
	}

	return RunReport{
		ID:        state.ID,
		Status:    state.Status,
		Submitted: state.Submitted,
		Events:    events,
		Results:   state.Results,
		Schedule:  state.Schedule,
		Failure:   state.Failure,
	}
}
