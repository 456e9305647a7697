package steps

import (
	"context"
	"fmt"

	"github.com/dukex/flyout/pkg/eventlog"
	"github.com/dukex/flyout/pkg/models"
	"github.com/dukex/flyout/pkg/template"
	"github.com/tidwall/gjson"
)

// arrivalPaths are the places a flight booking may report its arrival time, in preference order.
var arrivalPaths = []string{
	"arrivalTime",
	"arrival_time",
	"arrival",
	"flight.arrivalTime",
	"details.arrival_time",
}

func Arrival() Step {
	return Step{
		Name: models.StepArrival,
		Run:  computeArrival,
	}
}

// ArrivalFromBody looks up the arrival time in a flight booking response. found is false
// when raw is not JSON or carries no non-empty arrival field.
func ArrivalFromBody(raw string) (arrival string, found bool) {
	if !gjson.Valid(raw) {
		return "", false
	}

	for _, path := range arrivalPaths {
		value := gjson.Get(raw, path)
		if value.Exists() && value.Type == gjson.String && value.String() != "" {
			return value.String(), true
		}
	}

	return "", false
}

func computeArrival(_ context.Context, _ Env, state *models.RunState) (Result, error) {
	var raw string
	if flight, ok := state.Results.Get(models.ResultFlight); ok {
		raw = template.JSON(flight)
	}

	value, found := ArrivalFromBody(raw)
	if found {
		arrival, err := models.ParseTimestamp(value)
		if err == nil {
			arrival = arrival.In(state.Schedule.Departure.Location())
			state.Schedule.Arrival = arrival
			state.Schedule.ArrivalSource = models.ArrivalFromService

			return Result{Message: "Arrival time " + formatTime(arrival) + " taken from flight booking"}, nil
		}
	}

	arrival := FallbackArrival(state.Schedule.Departure)
	state.Schedule.Arrival = arrival
	state.Schedule.ArrivalSource = models.ArrivalFallback

	reason := "flight booking did not include an arrival time"
	if found {
		reason = fmt.Sprintf("flight booking arrival time %q could not be parsed", value)
	}

	return Result{
		Message: "Arrival time set to " + formatTime(arrival),
		Notes: []Note{{
			Kind:    eventlog.KindWarning,
			Message: fmt.Sprintf("%s; assuming arrival at departure + 3h (%s)", reason, formatTime(arrival)),
			Detail: map[string]string{
				"departure": formatTime(state.Schedule.Departure),
				"arrival":   formatTime(arrival),
			},
		}},
	}, nil
}
