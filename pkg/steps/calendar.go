package steps

import (
	"context"

	"github.com/dukex/flyout/pkg/models"
)

const (
	CalendarFlightTitle  = "Flight"
	CalendarLodgingTitle = "Lodging"
)

func Calendar() Step {
	return Step{
		Name: models.StepCalendar,
		Action: func(*models.RunState) string {
			return "Adding flight and lodging to the calendar"
		},
		Run: updateCalendar,
	}
}

// CalendarEntries are the two entries added for every run, whichever lodging was booked.
func CalendarEntries(state *models.RunState) []CalendarEntry {
	checkIn := state.Schedule.CheckIn
	if checkIn.IsZero() {
		checkIn = state.Schedule.Departure
	}

	return []CalendarEntry{
		{
			Title: CalendarFlightTitle,
			Date:  formatTime(state.Schedule.Departure),
			Note:  "Flight from " + state.Input.Origin,
		},
		{
			Title: CalendarLodgingTitle,
			Date:  formatTime(checkIn),
			Note:  "Check in at " + string(state.Input.Accommodation),
		},
	}
}

func updateCalendar(ctx context.Context, env Env, state *models.RunState) (Result, error) {
	req := CalendarRequest{
		GuestName: state.Input.GuestName,
		Events:    CalendarEntries(state),
	}

	outcome, err := call(ctx, env, ContractCalendar, env.Config.Endpoints.Calendar, req, env.retry())
	if err != nil {
		return Result{}, err
	}

	return Result{
		Key:     models.ResultCalendar,
		Outcome: outcome,
		Message: "Calendar updated",
	}, nil
}
