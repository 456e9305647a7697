package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/flyout/pkg/config"
	"github.com/dukex/flyout/pkg/eventbus"
	"github.com/dukex/flyout/pkg/eventlog"
	"github.com/dukex/flyout/pkg/models"
	"github.com/dukex/flyout/pkg/orchestrator"
	"github.com/dukex/flyout/pkg/otelhelper"
	"github.com/dukex/flyout/pkg/transport"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
)

// Runtime is everything a binary needs to start runs.
type Runtime struct {
	Config       config.Config
	Orchestrator *orchestrator.Orchestrator
	EventBus     eventbus.EventBus

	closers []func(context.Context) error
}

// NewRunGuard returns a Redis guard when redisURL is set and an in-process guard otherwise.
func NewRunGuard(ctx context.Context, redisURL string) (orchestrator.RunGuard, func(context.Context) error, error) {
	if redisURL == "" {
		return orchestrator.NewLocalGuard(), nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return orchestrator.NewRedisGuard(client), func(context.Context) error { return client.Close() }, nil
}

// NewTracer exports spans over OTLP when enabled; otherwise spans go to the global no-op provider.
//
// nolint:ireturn
func NewTracer(ctx context.Context, enabled bool, service string) (trace.Tracer, func(context.Context) error, error) {
	if !enabled {
		return otelhelper.NoopTracer(service), nil, nil
	}

	tracer, shutdown, err := otelhelper.NewTracer(ctx, service)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	return tracer, shutdown, nil
}

func NewRuntime(
	ctx context.Context,
	command *cli.Command,
	service string,
	guard orchestrator.RunGuard,
	logger *slog.Logger,
) (*Runtime, error) {
	cfg, err := LoadConfig(command, models.NewValidator())
	if err != nil {
		return nil, err
	}

	r := &Runtime{Config: cfg}

	tracer, shutdown, err := NewTracer(ctx, command.Bool("otel-enabled"), service)
	if err != nil {
		return nil, err
	}

	r.OnClose(shutdown)

	bus, err := NewEventBus(command.String("event-bus"), command.String("kafka-brokers"), logger)
	if err != nil {
		r.Close(ctx, logger)

		return nil, err
	}

	opts := []orchestrator.Option{
		orchestrator.WithGuard(guard),
		orchestrator.WithTracer(tracer),
	}

	if bus != nil {
		r.EventBus = bus
		r.OnClose(func(context.Context) error { return bus.Close() })

		opts = append(opts, orchestrator.WithSinkFactory(func(runID string) eventlog.Sink {
			return eventbus.NewRunSink(bus, runID)
		}))
	}

	client := transport.NewClient(
		transport.WithTimeout(cfg.RequestTimeout),
		transport.WithTracer(tracer),
	)

	r.Orchestrator = orchestrator.New(cfg, client, opts...)

	logger.InfoContext(ctx, "runtime ready",
		"base_url", cfg.BaseURL,
		"retries", cfg.Retries,
		"summarizer", cfg.SummarizerEnabled(),
		"event_bus", command.String("event-bus"),
	)

	return r, nil
}

// OnClose registers fn to run on Close. Nil is ignored.
func (r *Runtime) OnClose(fn func(context.Context) error) {
	if fn != nil {
		r.closers = append(r.closers, fn)
	}
}

// Close releases resources in reverse order of acquisition.
func (r *Runtime) Close(ctx context.Context, logger *slog.Logger) {
	var errs []error

	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i](ctx))
	}

	if err := errors.Join(errs...); err != nil {
		logger.ErrorContext(ctx, "failed to close runtime", "error", err)
	}
}
