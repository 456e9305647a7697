// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/dukex/flyout/pkg/models"
)

// NewInput returns the reference trip input (Jordan leaving SFO on 2025-06-01 09:00 UTC,
// dining in, staying in a short-term rental) with overrides applied.
func NewInput(overrides ...func(*models.OrchestrationInput)) models.OrchestrationInput {
	input := models.OrchestrationInput{
		GuestName:     "Jordan",
		Origin:        "SFO",
		DepartureDate: "2025-06-01T09:00:00Z",
		EatOption:     models.EatDineIn,
		Accommodation: models.StayShortTermRental,
	}

	for _, override := range overrides {
		override(&input)
	}

	return input
}

func WithDelivery() func(*models.OrchestrationInput) {
	return func(in *models.OrchestrationInput) {
		in.EatOption = models.EatDelivery
	}
}

func WithHotel() func(*models.OrchestrationInput) {
	return func(in *models.OrchestrationInput) {
		in.Accommodation = models.StayHotel
	}
}

func WithDeparture(departure string) func(*models.OrchestrationInput) {
	return func(in *models.OrchestrationInput) {
		in.DepartureDate = departure
	}
}

// WithoutGuest blanks the guest name, which fails validation.
func WithoutGuest() func(*models.OrchestrationInput) {
	return func(in *models.OrchestrationInput) {
		in.GuestName = ""
	}
}
