package steps

import (
	"context"
	"fmt"

	"github.com/dukex/flyout/pkg/models"
)

func Flight() Step {
	return Step{
		Name: models.StepFlight,
		Action: func(state *models.RunState) string {
			return fmt.Sprintf("Booking flight for %s from %s departing %s",
				state.Input.GuestName, state.Input.Origin, formatTime(state.Schedule.Departure))
		},
		Run: bookFlight,
	}
}

func bookFlight(ctx context.Context, env Env, state *models.RunState) (Result, error) {
	req := FlightRequest{
		GuestName:     state.Input.GuestName,
		Origin:        state.Input.Origin,
		DepartureDate: formatTime(state.Schedule.Departure),
		SeatClass:     SeatClass,
		Note:          FlightNote,
	}

	outcome, err := call(ctx, env, ContractFlight, env.Config.Endpoints.Flight, req, env.retry())
	if err != nil {
		return Result{}, err
	}

	return Result{
		Key:     models.ResultFlight,
		Outcome: outcome,
		Message: "Flight booked",
	}, nil
}
