package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dukex/flyout/pkg/cmd"
	"github.com/dukex/flyout/pkg/log"
	"github.com/dukex/flyout/pkg/models"
	"github.com/dukex/flyout/pkg/orchestrator"
	"github.com/dukex/flyout/pkg/web"
	"github.com/urfave/cli/v3"
)

func RunCommand() *cli.Command {
	flags := append([]cli.Flag{
		&cli.StringFlag{Name: "guest-name", Aliases: []string{"g"}, Usage: "Guest to book for"},
		&cli.StringFlag{Name: "origin", Aliases: []string{"o"}, Usage: "Departure airport or city"},
		&cli.StringFlag{Name: "departure-date", Aliases: []string{"d"}, Usage: "Departure timestamp, e.g. 2025-06-01T09:00:00Z"},
		&cli.StringFlag{
			Name:  "eat-option",
			Usage: "dine-in or delivery",
			Value: string(models.EatDineIn),
		},
		&cli.StringFlag{
			Name:  "accommodation",
			Usage: "short-term-rental or hotel",
			Value: string(models.StayShortTermRental),
		},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Print event details"},
		&cli.BoolFlag{Name: "json", Usage: "Print the final run report as JSON"},
	}, cmd.ConfigFlags()...)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Run one trip orchestration and print its events as they happen",
		Flags:   flags,
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("flyout")

			runtime, err := cmd.NewRuntime(ctx, command, "flyout", orchestrator.NewLocalGuard(), logger)
			if err != nil {
				return err
			}
			defer runtime.Close(context.WithoutCancel(ctx), logger)

			input := models.OrchestrationInput{
				GuestName:     command.String("guest-name"),
				Origin:        command.String("origin"),
				DepartureDate: command.String("departure-date"),
				EatOption:     models.EatOption(command.String("eat-option")),
				Accommodation: models.Accommodation(command.String("accommodation")),
			}

			state, err := runtime.Orchestrator.Start(ctx, input, NewPrinter(os.Stdout, command.Bool("verbose")))
			if err != nil {
				return err
			}

			if command.Bool("json") {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				if err := encoder.Encode(web.TransformRunReport(state)); err != nil {
					return err
				}
			}

			return exitStatus(state)
		},
	}
}

func exitStatus(state *models.RunState) error {
	if state.Failure == nil {
		return nil
	}

	return cli.Exit(fmt.Sprintf("run %s failed at %s (%s): %s",
		state.ID, state.Failure.Step, state.Failure.Kind, state.Failure.Message), 1)
}
