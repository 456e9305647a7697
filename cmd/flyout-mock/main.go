package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dukex/flyout/pkg/log"
	"github.com/dukex/flyout/pkg/mockservices"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 8081

func main() {
	command := &cli.Command{
		Name:  "flyout-mock",
		Usage: "Serve stand-ins for the booking services",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:  "omit-arrival",
				Usage: "Leave arrivalTime out of flight confirmations",
			},
			&cli.DurationFlag{
				Name:  "flight-duration",
				Usage: "Time added to the departure to produce arrivalTime",
				Value: mockservices.DefaultFlightDuration,
			},
			&cli.StringSliceFlag{
				Name:  "fail",
				Usage: "Fail an endpoint, as path=status or path=drop (e.g. booking/ride=503)",
			},
		},
		Action: serve,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command.Run(ctx, os.Args); err != nil {
		log.WithModule("mock").Error("flyout-mock failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func serve(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))

	logger := log.WithModule("mock")

	opts := []mockservices.Option{
		mockservices.WithFlightDuration(command.Duration("flight-duration")),
	}

	if command.Bool("omit-arrival") {
		opts = append(opts, mockservices.WithoutArrival())
	}

	for _, raw := range command.StringSlice("fail") {
		path, fault, err := mockservices.ParseFault(raw)
		if err != nil {
			return err
		}

		opts = append(opts, mockservices.WithFault(path, fault))
	}

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(command.Int("port")),
		Handler:           mockservices.NewServer(opts...).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		if err := server.Close(); err != nil {
			logger.Error("Error closing server", "error", err)
		}
	}()

	logger.InfoContext(ctx, "Mock booking services starting", "addr", server.Addr, "paths", mockservices.Paths)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info("Server stopped")

	return nil
}
