// Package orchestrator drives a booking run through its steps.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/flyout/pkg/config"
	"github.com/dukex/flyout/pkg/eventlog"
	"github.com/dukex/flyout/pkg/log"
	"github.com/dukex/flyout/pkg/models"
	"github.com/dukex/flyout/pkg/otelhelper"
	"github.com/dukex/flyout/pkg/steps"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrRunInProgress is returned by Start while another run holds the guard.
var ErrRunInProgress = errors.New("a run is already in progress")

// SinkFactory builds a sink bound to one run.
type SinkFactory func(runID string) eventlog.Sink

type Orchestrator struct {
	env       steps.Env
	sequence  []steps.Step
	guard     RunGuard
	validate  *validator.Validate
	logger    *slog.Logger
	tracer    trace.Tracer
	sinks     []eventlog.Sink
	factories []SinkFactory
	now       func() time.Time
	newID     func() string
}

type Option func(*Orchestrator)

func WithGuard(guard RunGuard) Option {
	return func(o *Orchestrator) {
		o.guard = guard
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = tracer
	}
}

// WithSinks adds sinks that receive the events of every run.
func WithSinks(sinks ...eventlog.Sink) Option {
	return func(o *Orchestrator) {
		o.sinks = append(o.sinks, sinks...)
	}
}

func WithSinkFactory(factory SinkFactory) Option {
	return func(o *Orchestrator) {
		o.factories = append(o.factories, factory)
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(o *Orchestrator) {
		o.newID = newID
	}
}

func New(cfg config.Config, caller steps.Caller, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		env:      steps.Env{Caller: caller, Config: cfg},
		sequence: steps.Sequence(),
		guard:    NewLocalGuard(),
		validate: models.NewValidator(),
		logger:   log.WithModule("orchestrator"),
		tracer:   otel.Tracer("github.com/dukex/flyout/pkg/orchestrator"),
		now:      time.Now,
		newID:    uuid.NewString,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Running reports whether a run currently holds the guard.
func (o *Orchestrator) Running(ctx context.Context) (bool, error) {
	return o.guard.Held(ctx)
}

// Start executes one run to completion and returns its final state. Step failures end
// the run but are reported through the state, not the error; the error is reserved for
// runs that could not be started at all.
func (o *Orchestrator) Start(
	ctx context.Context,
	input models.OrchestrationInput,
	sinks ...eventlog.Sink,
) (*models.RunState, error) {
	id := o.newID()

	acquired, err := o.guard.TryAcquire(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run guard: %w", err)
	}

	if !acquired {
		return nil, ErrRunInProgress
	}

	defer func() {
		if err := o.guard.Release(context.WithoutCancel(ctx), id); err != nil {
			o.logger.WarnContext(ctx, "failed to release run guard", log.RunID(id), log.Error(err))
		}
	}()

	ctx, span := otelhelper.StartSpan(ctx, o.tracer, "orchestrator.run",
		attribute.String(otelhelper.RunIDKey, id),
	)
	defer span.End()

	logger := o.logger.With(log.RunID(id))
	state := models.NewRunState(id, input.Normalize(), o.newLog(id, logger, sinks), o.now().UTC())

	o.run(ctx, logger, state)

	span.SetAttributes(attribute.String(otelhelper.RunStatusKey, string(state.Status)))

	if state.Failure != nil {
		otelhelper.SetError(span, errors.New(state.Failure.Message),
			attribute.String(otelhelper.StepNameKey, string(state.Failure.Step)),
		)
	}

	return state, nil
}

func (o *Orchestrator) newLog(runID string, logger *slog.Logger, extra []eventlog.Sink) *eventlog.Log {
	sinks := make([]eventlog.Sink, 0, len(o.sinks)+len(o.factories)+len(extra))
	sinks = append(sinks, o.sinks...)

	for _, factory := range o.factories {
		sinks = append(sinks, factory(runID))
	}

	sinks = append(sinks, extra...)

	return eventlog.New(
		eventlog.WithClock(o.now),
		eventlog.WithLogger(logger),
		eventlog.WithSinks(sinks...),
	)
}

func (o *Orchestrator) run(ctx context.Context, logger *slog.Logger, state *models.RunState) {
	departure, err := state.Input.Validate(o.validate)
	if err != nil {
		logger.InfoContext(ctx, "run rejected", log.Error(err))
		state.Log.Append(ctx, eventlog.KindError, string(models.StepValidate), err.Error(), nil)
		state.Fail(models.StepValidate, models.ErrorKindValidation, err.Error())

		return
	}

	state.Schedule.Departure = departure
	state.Status = models.RunStatusRunning

	logger.InfoContext(ctx, "run started")
	state.Log.Append(ctx, eventlog.KindInfo, "",
		fmt.Sprintf("Starting trip orchestration for %s from %s", state.Input.GuestName, state.Input.Origin),
		state.Input,
	)

	for i, step := range o.sequence {
		state.StepIndex = i

		if !o.runStep(ctx, logger.With(log.Step(step.Name)), step, state) {
			logger.InfoContext(ctx, "run failed", "step", state.Failure.Step, "kind", state.Failure.Kind)

			return
		}
	}

	state.Log.Append(ctx, eventlog.KindDone, "", "Trip orchestration complete", state.Results.Keys())
	state.Status = models.RunStatusCompleted

	logger.InfoContext(ctx, "run completed")
}

// runStep reports whether the run may continue.
func (o *Orchestrator) runStep(ctx context.Context, logger *slog.Logger, step steps.Step, state *models.RunState) bool {
	name := string(step.Name)

	if step.Enabled != nil {
		if enabled, reason := step.Enabled(o.env); !enabled {
			state.Log.Append(ctx, eventlog.KindInfo, name, reason, nil)

			return true
		}
	}

	ctx, span := otelhelper.StartSpan(ctx, o.tracer, "orchestrator.step",
		attribute.String(otelhelper.RunIDKey, state.ID),
		attribute.String(otelhelper.StepNameKey, name),
		attribute.Int(otelhelper.StepIndexKey, state.StepIndex),
	)
	defer span.End()

	if step.Action != nil {
		if message := step.Action(state); message != "" {
			state.Log.Append(ctx, eventlog.KindAction, name, message, nil)
		}
	}

	result, err := step.Run(ctx, o.env, state)
	if err != nil {
		otelhelper.SetError(span, err)

		if step.Optional {
			logger.WarnContext(ctx, "optional step failed", log.Error(err))
			state.Log.Append(ctx, eventlog.KindWarning, name,
				fmt.Sprintf("%s step failed, continuing without it: %v", name, err), steps.Detail(err))

			return true
		}

		o.abort(ctx, logger, step.Name, steps.ErrorKind(err), err, state)

		return false
	}

	for _, note := range result.Notes {
		state.Log.Append(ctx, note.Kind, name, note.Message, note.Detail)
	}

	var detail any

	if result.Outcome != nil {
		detail = result.Outcome
	}

	if result.Key != "" {
		if err := state.Results.Set(result.Key, result.Outcome.Value()); err != nil {
			otelhelper.SetError(span, err)
			o.abort(ctx, logger, step.Name, models.ErrorKindApplication, err, state)

			return false
		}
	}

	message := result.Message
	if message == "" {
		message = name + " step completed"
	}

	state.Log.Append(ctx, eventlog.KindSuccess, name, message, detail)

	return true
}

func (o *Orchestrator) abort(
	ctx context.Context,
	logger *slog.Logger,
	step models.StepName,
	kind models.ErrorKind,
	err error,
	state *models.RunState,
) {
	logger.ErrorContext(ctx, "step failed", "kind", kind, log.Error(err))

	state.Log.Append(ctx, eventlog.KindError, string(step), err.Error(), steps.Detail(err))
	state.Log.Append(ctx, eventlog.KindFatal, string(step),
		fmt.Sprintf("Aborting run at %s (%s failure); completed bookings are not rolled back", step, kind), nil)
	state.Fail(step, kind, err.Error())
}
