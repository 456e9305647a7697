package steps

import (
	"context"
	"fmt"

	"github.com/dukex/flyout/pkg/models"
)

// Lodging books a short-term rental or a hotel, depending on the guest's accommodation.
func Lodging() Step {
	return Step{
		Name: models.StepLodging,
		Action: func(state *models.RunState) string {
			if state.Input.Accommodation == models.StayHotel {
				return fmt.Sprintf("Booking hotel from %s for %d nights", formatTime(state.Schedule.Departure), HotelNights)
			}

			return fmt.Sprintf("Booking short-term rental from %s to %s",
				formatTime(state.Schedule.Departure), formatTime(RentalCheckout(state.Schedule.Departure)))
		},
		Run: bookStay,
	}
}

func bookStay(ctx context.Context, env Env, state *models.RunState) (Result, error) {
	if state.Input.Accommodation == models.StayHotel {
		return bookHotel(ctx, env, state)
	}

	return bookRental(ctx, env, state)
}

func bookRental(ctx context.Context, env Env, state *models.RunState) (Result, error) {
	checkIn := state.Schedule.Departure
	checkOut := RentalCheckout(checkIn)

	req := StayRequest{
		GuestName:    state.Input.GuestName,
		Checkin:      formatTime(checkIn),
		Checkout:     formatTime(checkOut),
		PropertyType: PropertyType,
	}

	outcome, err := call(ctx, env, ContractStay, env.Config.Endpoints.Rental, req, env.retry())
	if err != nil {
		return Result{}, err
	}

	state.Schedule.CheckIn = checkIn
	state.Schedule.CheckOut = checkOut

	return Result{
		Key:     models.ResultLodging,
		Outcome: outcome,
		Message: "Short-term rental booked until " + formatTime(checkOut),
	}, nil
}

func bookHotel(ctx context.Context, env Env, state *models.RunState) (Result, error) {
	checkIn := state.Schedule.Departure

	req := HotelRequest{
		GuestName: state.Input.GuestName,
		Checkin:   formatTime(checkIn),
		Nights:    HotelNights,
		RoomType:  RoomType,
	}

	outcome, err := call(ctx, env, ContractHotel, env.Config.Endpoints.Hotel, req, env.retry())
	if err != nil {
		return Result{}, err
	}

	state.Schedule.CheckIn = checkIn
	state.Schedule.Nights = HotelNights

	return Result{
		Key:     models.ResultLodging,
		Outcome: outcome,
		Message: fmt.Sprintf("Hotel booked for %d nights", HotelNights),
	}, nil
}
