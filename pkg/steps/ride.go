package steps

import (
	"context"

	"github.com/dukex/flyout/pkg/models"
)

func Ride() Step {
	return Step{
		Name: models.StepRide,
		Action: func(state *models.RunState) string {
			return "Ordering ride from the airport at " + formatTime(PickupTime(state.Schedule.Arrival))
		},
		Run: orderRide,
	}
}

func orderRide(ctx context.Context, env Env, state *models.RunState) (Result, error) {
	pickup := PickupTime(state.Schedule.Arrival)

	req := RideRequest{
		GuestName:       state.Input.GuestName,
		PickupLocation:  PickupLocation,
		PickupTime:      formatTime(pickup),
		DropoffLocation: DropoffLocation,
		Note:            RideNote,
	}

	outcome, err := call(ctx, env, ContractRide, env.Config.Endpoints.Ride, req, env.retry())
	if err != nil {
		return Result{}, err
	}

	state.Schedule.Pickup = pickup

	return Result{
		Key:     models.ResultRide,
		Outcome: outcome,
		Message: "Ride ordered for " + formatTime(pickup),
	}, nil
}
