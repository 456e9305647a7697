// Package models defines the data carried through a booking run.
package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type EatOption string

const (
	EatDineIn   EatOption = "dine-in"
	EatDelivery EatOption = "delivery"
)

type Accommodation string

const (
	StayShortTermRental Accommodation = "short-term-rental"
	StayHotel           Accommodation = "hotel"
)

// OrchestrationInput is the traveler intent collected by the presentation layer.
type OrchestrationInput struct {
	GuestName     string        `json:"guestName"     validate:"required"`
	Origin        string        `json:"origin"        validate:"required"`
	DepartureDate string        `json:"departureDate" validate:"required,timestamp"`
	EatOption     EatOption     `json:"eatOption"     validate:"required,oneof=dine-in delivery"`
	Accommodation Accommodation `json:"accommodation" validate:"required,oneof=short-term-rental hotel"`
}

// ErrInvalidInput wraps every validation failure of an OrchestrationInput.
var ErrInvalidInput = errors.New("invalid orchestration input")

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 and a few zone-less layouts, which are read as UTC.
// The result always carries the written offset as a fixed zone, never the host's zone.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return fixedZone(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}

func fixedZone(t time.Time) time.Time {
	if t.Location() == time.UTC {
		return t
	}

	_, offset := t.Zone()

	return t.In(time.FixedZone("", offset))
}

// NewValidator returns a validator that knows the "timestamp" rule and reports json field names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	_ = v.RegisterValidation("timestamp", func(fl validator.FieldLevel) bool {
		_, err := ParseTimestamp(fl.Field().String())

		return err == nil
	})

	return v
}

// Normalize trims surrounding whitespace so blank values count as missing.
func (in OrchestrationInput) Normalize() OrchestrationInput {
	in.GuestName = strings.TrimSpace(in.GuestName)
	in.Origin = strings.TrimSpace(in.Origin)
	in.DepartureDate = strings.TrimSpace(in.DepartureDate)
	in.EatOption = EatOption(strings.TrimSpace(string(in.EatOption)))
	in.Accommodation = Accommodation(strings.TrimSpace(string(in.Accommodation)))

	return in
}

// Validate checks the input and returns the parsed departure time.
func (in OrchestrationInput) Validate(v *validator.Validate) (time.Time, error) {
	if err := v.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}

		problems := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			problems = append(problems, describeFieldError(fe))
		}

		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}

	departure, err := ParseTimestamp(in.DepartureDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return departure, nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "timestamp":
		return fe.Field() + " is not a valid timestamp"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
