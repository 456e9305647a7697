package main

import (
	"context"
	"errors"
	"os"

	"github.com/dukex/flyout/pkg/cmd"
	"github.com/dukex/flyout/pkg/events"
	"github.com/dukex/flyout/pkg/log"
	"github.com/urfave/cli/v3"
)

var errWatchDone = errors.New("watched run finished")

func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:    "watch",
		Aliases: []string{"w"},
		Usage:   "Print run events published by API instances",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus to read from (kafka)",
				Value:   cmd.EventBusKafka,
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka brokers",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.StringFlag{Name: "run-id", Usage: "Only print events of this run"},
			&cli.BoolFlag{Name: "until-done", Usage: "Exit once the watched run ends (requires --run-id)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Print event details"},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("watch")

			bus, err := cmd.NewEventBus(command.String("event-bus"), command.String("kafka-brokers"), logger)
			if err != nil {
				return err
			}

			if bus == nil {
				return cli.Exit("watch needs an event bus", 1)
			}

			defer func() {
				if err := bus.Close(); err != nil {
					logger.Error("Failed to close event bus", "error", err)
				}
			}()

			ctx, cancel := context.WithCancelCause(ctx)
			defer cancel(nil)

			watcher := &Watcher{
				Printer:   NewPrinter(os.Stdout, command.Bool("verbose")),
				RunID:     command.String("run-id"),
				UntilDone: command.Bool("until-done") && command.String("run-id") != "",
				Done:      func() { cancel(errWatchDone) },
			}

			if err := bus.Handle(events.RunEventAppendedEvent, watcher.Handle); err != nil {
				return err
			}

			if err := bus.Subscribe(ctx); err != nil {
				return err
			}

			logger.InfoContext(ctx, "Watching run events", "run_id", watcher.RunID)

			<-ctx.Done()

			return nil
		},
	}
}

// Watcher prints the run events it is handed.
type Watcher struct {
	Printer   *Printer
	RunID     string
	UntilDone bool
	Done      func()
}

func (w *Watcher) Handle(ctx context.Context, event any) error {
	appended, ok := event.(*events.RunEventAppended)
	if !ok {
		return nil
	}

	if w.RunID != "" && appended.RunID != w.RunID {
		return nil
	}

	printer := w.Printer
	if w.RunID == "" {
		printer = printer.WithPrefix(appended.RunID[:min(8, len(appended.RunID))] + " ")
	}

	if err := printer.Emit(ctx, appended.Event); err != nil {
		return err
	}

	if w.UntilDone && appended.Terminal() && w.Done != nil {
		w.Done()
	}

	return nil
}
