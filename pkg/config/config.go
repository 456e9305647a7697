// Package config describes where the booking services live and how they are called.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// PlaceholderAPIKey is the sentinel shipped in sample configuration; it disables the summarizer.
const PlaceholderAPIKey = "YOUR_API_KEY_HERE"

const (
	DefaultBaseURL        = "http://localhost:8081"
	DefaultRetries        = 2
	DefaultSummaryRetries = 1
)

// Logical endpoint paths, relative to the base URL.
const (
	PathFlight     = "booking/flight"
	PathRide       = "booking/ride"
	PathDining     = "booking/reserve-table"
	PathDelivery   = "booking/order-food"
	PathRental     = "booking/stay"
	PathHotel      = "booking/hotel"
	PathCalendar   = "calendar/add-events"
	PathSummarizer = "summarizer/session"
)

type Endpoints struct {
	Flight     string `yaml:"flight"     validate:"required,url"`
	Ride       string `yaml:"ride"       validate:"required,url"`
	Dining     string `yaml:"dining"     validate:"required,url"`
	Delivery   string `yaml:"delivery"   validate:"required,url"`
	Rental     string `yaml:"rental"     validate:"required,url"`
	Hotel      string `yaml:"hotel"      validate:"required,url"`
	Calendar   string `yaml:"calendar"   validate:"required,url"`
	Summarizer string `yaml:"summarizer" validate:"required,url"`
}

type Config struct {
	BaseURL          string        `yaml:"base_url"`
	Endpoints        Endpoints     `yaml:"endpoints"`
	SummarizerAPIKey string        `yaml:"summarizer_api_key"`
	Retries          int           `yaml:"retries"         validate:"min=1"`
	SummaryRetries   int           `yaml:"summary_retries" validate:"min=1"`
	RetryDelay       time.Duration `yaml:"retry_delay"     validate:"min=0"`
	RequestTimeout   time.Duration `yaml:"request_timeout" validate:"min=0"`
	// SummaryTemplate overrides the text/template used to build the summarizer message.
	SummaryTemplate string `yaml:"summary_template"`
}

// Default returns a configuration pointing every endpoint at DefaultBaseURL.
func Default() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		Endpoints:      EndpointsFromBase(DefaultBaseURL),
		Retries:        DefaultRetries,
		SummaryRetries: DefaultSummaryRetries,
	}
}

// EndpointsFromBase joins every logical path onto base.
func EndpointsFromBase(base string) Endpoints {
	return Endpoints{
		Flight:     join(base, PathFlight),
		Ride:       join(base, PathRide),
		Dining:     join(base, PathDining),
		Delivery:   join(base, PathDelivery),
		Rental:     join(base, PathRental),
		Hotel:      join(base, PathHotel),
		Calendar:   join(base, PathCalendar),
		Summarizer: join(base, PathSummarizer),
	}
}

func join(base, path string) string {
	joined, err := url.JoinPath(base, path)
	if err != nil {
		return strings.TrimRight(base, "/") + "/" + path
	}

	return joined
}

// Load reads a YAML file over the defaults. Endpoints left empty in the file are derived
// from its base_url.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if file.BaseURL != "" {
		cfg = cfg.WithBaseURL(file.BaseURL)
	}

	cfg.Endpoints = cfg.Endpoints.Merge(file.Endpoints)

	if file.SummarizerAPIKey != "" {
		cfg.SummarizerAPIKey = file.SummarizerAPIKey
	}

	if file.Retries != 0 {
		cfg.Retries = file.Retries
	}

	if file.SummaryRetries != 0 {
		cfg.SummaryRetries = file.SummaryRetries
	}

	if file.RetryDelay != 0 {
		cfg.RetryDelay = file.RetryDelay
	}

	if file.RequestTimeout != 0 {
		cfg.RequestTimeout = file.RequestTimeout
	}

	if file.SummaryTemplate != "" {
		cfg.SummaryTemplate = file.SummaryTemplate
	}

	return cfg, nil
}

// WithBaseURL re-derives every endpoint from base.
func (c Config) WithBaseURL(base string) Config {
	c.BaseURL = base
	c.Endpoints = EndpointsFromBase(base)

	return c
}

// Merge returns e with every non-empty field of override applied.
func (e Endpoints) Merge(override Endpoints) Endpoints {
	pick := func(current, next string) string {
		if next != "" {
			return next
		}

		return current
	}

	return Endpoints{
		Flight:     pick(e.Flight, override.Flight),
		Ride:       pick(e.Ride, override.Ride),
		Dining:     pick(e.Dining, override.Dining),
		Delivery:   pick(e.Delivery, override.Delivery),
		Rental:     pick(e.Rental, override.Rental),
		Hotel:      pick(e.Hotel, override.Hotel),
		Calendar:   pick(e.Calendar, override.Calendar),
		Summarizer: pick(e.Summarizer, override.Summarizer),
	}
}

// SummarizerEnabled reports whether a usable summarizer key is configured.
func (c Config) SummarizerEnabled() bool {
	key := strings.TrimSpace(c.SummarizerAPIKey)

	return key != "" && key != PlaceholderAPIKey
}

func (c Config) Validate(v *validator.Validate) error {
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}
