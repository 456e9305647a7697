package web

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukex/flyout/pkg/eventlog"
	"github.com/dukex/flyout/pkg/log"
	"github.com/dukex/flyout/pkg/models"
	"github.com/dukex/flyout/pkg/orchestrator"
	"github.com/gofiber/fiber/v3"
)

// Runner is the part of the orchestrator the handlers use.
type Runner interface {
	Start(ctx context.Context, input models.OrchestrationInput, sinks ...eventlog.Sink) (*models.RunState, error)
	Running(ctx context.Context) (bool, error)
}

type APIHandlers struct {
	runner Runner
	logger *slog.Logger
}

func NewAPIHandlers(runner Runner) *APIHandlers {
	return &APIHandlers{
		runner: runner,
		logger: log.WithModule("web"),
	}
}

// StartRun executes a run synchronously and answers with its report. Runs rejected by
// input validation answer 422; runs that fail at a later step still answer 200.
func (h *APIHandlers) StartRun(c fiber.Ctx) error {
	var input models.OrchestrationInput
	if err := c.Bind().JSON(&input); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	state, err := h.runner.Start(c.Context(), input)
	if err != nil {
		if errors.Is(err, orchestrator.ErrRunInProgress) {
			return conflict(c, err.Error())
		}

		h.logger.ErrorContext(c.Context(), "failed to start run", log.Error(err))

		return internalError(c, err)
	}

	report := TransformRunReport(state)

	if state.Failure != nil && state.Failure.Kind == models.ErrorKindValidation {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(report)
	}

	return c.JSON(report)
}

func (h *APIHandlers) RunStatus(c fiber.Ctx) error {
	running, err := h.runner.Running(c.Context())
	if err != nil {
		return unavailable(c, err)
	}

	return c.JSON(RunStatusResponse{Running: running})
}

// Ready reports whether the run guard can be consulted.
func (h *APIHandlers) Ready(c fiber.Ctx) bool {
	_, err := h.runner.Running(c.Context())

	return err == nil
}
