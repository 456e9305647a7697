package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dukex/flyout/pkg/cmd"
	"github.com/dukex/flyout/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9091

func main() {
	flags := append([]cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Port to run the API server on",
			Value:   defaultPort,
			Sources: cli.EnvVars("PORT"),
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "Redis URL used to admit one run across API replicas; empty keeps the guard in-process",
			Sources: cli.EnvVars("REDIS_URL"),
		},
	}, cmd.ConfigFlags()...)

	command := &cli.Command{
		Name:                  "flyout-api",
		Usage:                 "Serve trip orchestration over HTTP",
		EnableShellCompletion: true,
		Flags:                 flags,
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := setupLogger(command)

			logger.InfoContext(ctx, "Initializing flyout API")

			guard, closeGuard, err := cmd.NewRunGuard(ctx, command.String("redis-url"))
			if err != nil {
				return err
			}

			runtime, err := cmd.NewRuntime(ctx, command, "flyout-api", guard, logger)
			if err != nil {
				if closeGuard != nil {
					_ = closeGuard(ctx)
				}

				return err
			}

			runtime.OnClose(closeGuard)
			defer runtime.Close(context.WithoutCancel(ctx), logger)

			api := NewAPI(logger, runtime.Orchestrator)

			return api.Start(ctx, command.Int("port"))
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command.Run(ctx, os.Args); err != nil {
		log.WithModule("api").Error("flyout-api failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// setupLogger installs the process logger from --log-level and returns the API module logger.
func setupLogger(command *cli.Command) *slog.Logger {
	log.Setup(command.String("log-level"))

	return log.WithModule("api")
}
