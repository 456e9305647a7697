package cmd

import (
	"errors"
	"fmt"

	"github.com/dukex/flyout/pkg/config"
	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v3"
)

var ErrInvalidFlags = errors.New("invalid flags")

// ConfigFlags are shared by every binary that runs orchestrations.
func ConfigFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			Sources: cli.EnvVars("FLYOUT_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL the booking service paths are joined onto",
			Sources: cli.EnvVars("FLYOUT_BASE_URL"),
		},
		&cli.StringFlag{Name: "flight-url", Usage: "Flight booking endpoint", Sources: cli.EnvVars("FLYOUT_FLIGHT_URL")},
		&cli.StringFlag{Name: "ride-url", Usage: "Ride booking endpoint", Sources: cli.EnvVars("FLYOUT_RIDE_URL")},
		&cli.StringFlag{Name: "dining-url", Usage: "Table reservation endpoint", Sources: cli.EnvVars("FLYOUT_DINING_URL")},
		&cli.StringFlag{Name: "delivery-url", Usage: "Food delivery endpoint", Sources: cli.EnvVars("FLYOUT_DELIVERY_URL")},
		&cli.StringFlag{Name: "rental-url", Usage: "Short-term rental endpoint", Sources: cli.EnvVars("FLYOUT_RENTAL_URL")},
		&cli.StringFlag{Name: "hotel-url", Usage: "Hotel booking endpoint", Sources: cli.EnvVars("FLYOUT_HOTEL_URL")},
		&cli.StringFlag{Name: "calendar-url", Usage: "Calendar endpoint", Sources: cli.EnvVars("FLYOUT_CALENDAR_URL")},
		&cli.StringFlag{Name: "summarizer-url", Usage: "Summarizer endpoint", Sources: cli.EnvVars("FLYOUT_SUMMARIZER_URL")},
		&cli.StringFlag{
			Name:    "summarizer-api-key",
			Usage:   "API key for the summarizer; the summary step is skipped without one",
			Sources: cli.EnvVars("SUMMARIZER_API_KEY"),
		},
		&cli.IntFlag{
			Name:    "retries",
			Usage:   "Attempts per booking call when the network fails",
			Value:   config.DefaultRetries,
			Sources: cli.EnvVars("FLYOUT_RETRIES"),
		},
		&cli.IntFlag{
			Name:    "summary-retries",
			Usage:   "Attempts for the summarizer call",
			Value:   config.DefaultSummaryRetries,
			Sources: cli.EnvVars("FLYOUT_SUMMARY_RETRIES"),
		},
		&cli.DurationFlag{
			Name:    "retry-delay",
			Usage:   "Pause between attempts",
			Sources: cli.EnvVars("FLYOUT_RETRY_DELAY"),
		},
		&cli.DurationFlag{
			Name:    "request-timeout",
			Usage:   "Per-attempt timeout; 0 waits indefinitely",
			Sources: cli.EnvVars("FLYOUT_REQUEST_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:    "event-bus",
			Usage:   "Event bus for run events (none, gochannel, kafka)",
			Value:   EventBusNone,
			Sources: cli.EnvVars("EVENT_BUS_TYPE"),
		},
		&cli.StringFlag{
			Name:    "kafka-brokers",
			Usage:   "Comma separated Kafka brokers",
			Sources: cli.EnvVars("KAFKA_BROKERS"),
		},
		&cli.BoolFlag{
			Name:    "otel-enabled",
			Usage:   "Export traces over OTLP/HTTP",
			Sources: cli.EnvVars("OTEL_ENABLED"),
		},
	}
}

// LoadConfig builds the configuration: defaults, then the YAML file, then flags.
func LoadConfig(command *cli.Command, validate *validator.Validate) (config.Config, error) {
	cfg := config.Default()

	if path := command.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}

		cfg = loaded
	}

	if base := command.String("base-url"); base != "" {
		cfg = cfg.WithBaseURL(base)
	}

	cfg.Endpoints = cfg.Endpoints.Merge(config.Endpoints{
		Flight:     command.String("flight-url"),
		Ride:       command.String("ride-url"),
		Dining:     command.String("dining-url"),
		Delivery:   command.String("delivery-url"),
		Rental:     command.String("rental-url"),
		Hotel:      command.String("hotel-url"),
		Calendar:   command.String("calendar-url"),
		Summarizer: command.String("summarizer-url"),
	})

	if key := command.String("summarizer-api-key"); key != "" {
		cfg.SummarizerAPIKey = key
	}

	if command.IsSet("retries") {
		cfg.Retries = command.Int("retries")
	}

	if command.IsSet("summary-retries") {
		cfg.SummaryRetries = command.Int("summary-retries")
	}

	if command.IsSet("retry-delay") {
		cfg.RetryDelay = command.Duration("retry-delay")
	}

	if command.IsSet("request-timeout") {
		cfg.RequestTimeout = command.Duration("request-timeout")
	}

	if cfg.RetryDelay < 0 || cfg.RequestTimeout < 0 {
		return cfg, fmt.Errorf("%w: durations must not be negative", ErrInvalidFlags)
	}

	if err := cfg.Validate(validate); err != nil {
		return cfg, err
	}

	return cfg, nil
}
