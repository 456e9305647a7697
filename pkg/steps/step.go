// Package steps implements the booking steps of a run and the values they derive.
package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukex/flyout/pkg/config"
	"github.com/dukex/flyout/pkg/eventlog"
	"github.com/dukex/flyout/pkg/models"
	"github.com/dukex/flyout/pkg/transport"
)

// ErrRejected is returned when a service answers with a non-success status.
var ErrRejected = errors.New("service rejected the request")

// Caller is the transport used by steps.
type Caller interface {
	Post(ctx context.Context, endpoint string, body any, retry transport.RetryConfig) (*models.StepOutcome, error)
}

// Env is what every step may use besides the run state.
type Env struct {
	Caller Caller
	Config config.Config
}

func (e Env) retry() transport.RetryConfig {
	return transport.RetryConfig{Attempts: e.Config.Retries, Delay: e.Config.RetryDelay}
}

func (e Env) summaryRetry() transport.RetryConfig {
	return transport.RetryConfig{Attempts: e.Config.SummaryRetries, Delay: e.Config.RetryDelay}
}

// Note is an extra event a step wants recorded, such as a fallback warning.
type Note struct {
	Kind    eventlog.Kind
	Message string
	Detail  any
}

// Result is handed back to the driver by a successful step.
type Result struct {
	// Key is empty for steps that only derive values.
	Key     models.ResultKey
	Outcome *models.StepOutcome
	Message string
	Notes   []Note
}

// Step describes one entry of the run sequence.
type Step struct {
	Name     models.StepName
	Optional bool
	// Action returns the message logged before the step runs; empty means nothing is logged.
	Action func(state *models.RunState) string
	// Enabled reports whether the step should run and, if not, why.
	Enabled func(env Env) (bool, string)
	Run     func(ctx context.Context, env Env, state *models.RunState) (Result, error)
}

// Sequence returns the steps of a run in execution order.
func Sequence() []Step {
	return []Step{
		Flight(),
		Arrival(),
		Ride(),
		Food(),
		Lodging(),
		Calendar(),
		Summary(),
	}
}

// ApplicationError reports a call that reached the service but did not succeed.
type ApplicationError struct {
	Endpoint string
	Outcome  *models.StepOutcome
	Err      error
}

func (e *ApplicationError) Error() string {
	if e.Outcome != nil {
		return fmt.Sprintf("%s: %s answered with status %d", e.Err, e.Endpoint, e.Outcome.StatusCode)
	}

	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies err as returned by a step's Run.
func ErrorKind(err error) models.ErrorKind {
	if transport.IsTransportError(err) {
		return models.ErrorKindTransport
	}

	return models.ErrorKindApplication
}

// Detail is what gets attached to the event that reports err.
func Detail(err error) any {
	var appErr *ApplicationError
	if errors.As(err, &appErr) && appErr.Outcome != nil {
		return appErr.Outcome
	}

	return err.Error()
}

// call checks body against contract, posts it and turns a non-success outcome into an ApplicationError.
func call(
	ctx context.Context,
	env Env,
	contract Contract,
	endpoint string,
	body any,
	retry transport.RetryConfig,
) (*models.StepOutcome, error) {
	if err := CheckContract(contract, body); err != nil {
		return nil, &ApplicationError{Endpoint: endpoint, Err: err}
	}

	outcome, err := env.Caller.Post(ctx, endpoint, body, retry)
	if err != nil {
		return nil, err
	}

	if !outcome.Succeeded {
		return outcome, &ApplicationError{Endpoint: endpoint, Outcome: outcome, Err: ErrRejected}
	}

	return outcome, nil
}
