package steps

import (
	"context"

	"github.com/dukex/flyout/pkg/models"
)

// Food books either a table or a delivery, depending on the guest's eat option.
func Food() Step {
	return Step{
		Name: models.StepFood,
		Action: func(state *models.RunState) string {
			if state.Input.EatOption == models.EatDelivery {
				return "Ordering food delivery for " + formatTime(DeliveryTime(state.Schedule.Pickup))
			}

			return "Reserving a table for " + formatTime(ReservationTime(state.Schedule.Pickup))
		},
		Run: eat,
	}
}

func eat(ctx context.Context, env Env, state *models.RunState) (Result, error) {
	if state.Input.EatOption == models.EatDelivery {
		return orderFood(ctx, env, state)
	}

	return reserveTable(ctx, env, state)
}

func reserveTable(ctx context.Context, env Env, state *models.RunState) (Result, error) {
	at := ReservationTime(state.Schedule.Pickup)

	req := TableRequest{
		GuestName: state.Input.GuestName,
		Time:      formatTime(at),
		PartySize: PartySize,
		Note:      DiningNote,
	}

	outcome, err := call(ctx, env, ContractTable, env.Config.Endpoints.Dining, req, env.retry())
	if err != nil {
		return Result{}, err
	}

	state.Schedule.Meal = at

	return Result{
		Key:     models.ResultDining,
		Outcome: outcome,
		Message: "Table reserved for " + formatTime(at),
	}, nil
}

func orderFood(ctx context.Context, env Env, state *models.RunState) (Result, error) {
	at := DeliveryTime(state.Schedule.Pickup)

	items := make([]string, len(DefaultDeliveryItems))
	copy(items, DefaultDeliveryItems)

	req := FoodOrderRequest{
		GuestName:    state.Input.GuestName,
		DeliveryTime: formatTime(at),
		Items:        items,
		Note:         DeliveryNote,
	}

	outcome, err := call(ctx, env, ContractDelivery, env.Config.Endpoints.Delivery, req, env.retry())
	if err != nil {
		return Result{}, err
	}

	state.Schedule.Meal = at

	return Result{
		Key:     models.ResultFood,
		Outcome: outcome,
		Message: "Food delivery ordered for " + formatTime(at),
	}, nil
}
