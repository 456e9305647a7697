package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/dukex/flyout/pkg/eventlog"
	"github.com/dukex/flyout/pkg/events"
	"github.com/dukex/flyout/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func TestPrinter_Emit(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	printer := NewPrinter(&out, false)

	require.NoError(t, printer.Emit(context.Background(), eventlog.Event{
		Timestamp: at, Kind: eventlog.KindAction, Step: "flight", Message: "Booking flight", Detail: map[string]int{"a": 1},
	}))
	require.NoError(t, printer.Emit(context.Background(), eventlog.Event{
		Timestamp: at, Kind: eventlog.KindDone, Message: "Trip orchestration complete",
	}))

	assert.Equal(t, "09:30:00 ACTION  [flight] Booking flight\n09:30:00 DONE    Trip orchestration complete\n", out.String())
}

func TestPrinter_VerboseDetail(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	printer := NewPrinter(&out, true)

	require.NoError(t, printer.Emit(context.Background(), eventlog.Event{
		Timestamp: at, Kind: eventlog.KindSuccess, Step: "ride", Message: "Ride ordered", Detail: map[string]int{"a": 1},
	}))

	assert.Contains(t, out.String(), "SUCCESS [ride] Ride ordered\n")
	assert.Contains(t, out.String(), `"a": 1`)
}

func TestWatcher_FiltersAndStops(t *testing.T) {
	t.Parallel()

	var (
		out  bytes.Buffer
		done bool
	)

	watcher := &Watcher{
		Printer:   NewPrinter(&out, false),
		RunID:     "run-1",
		UntilDone: true,
		Done:      func() { done = true },
	}

	other := &events.RunEventAppended{
		BaseEvent: events.BaseEvent{RunID: "run-2"},
		Event:     eventlog.Event{Timestamp: at, Kind: eventlog.KindDone, Message: "other run"},
	}
	require.NoError(t, watcher.Handle(context.Background(), other))
	assert.Empty(t, out.String())
	assert.False(t, done)

	mine := &events.RunEventAppended{
		BaseEvent: events.BaseEvent{RunID: "run-1"},
		Event:     eventlog.Event{Timestamp: at, Kind: eventlog.KindFatal, Step: "ride", Message: "Aborting run"},
	}
	require.NoError(t, watcher.Handle(context.Background(), mine))
	assert.Contains(t, out.String(), "Aborting run")
	assert.True(t, done)
}

func TestExitStatus(t *testing.T) {
	t.Parallel()

	state := models.NewRunState("run-1", models.OrchestrationInput{}, eventlog.New(), at)
	state.Status = models.RunStatusCompleted
	require.NoError(t, exitStatus(state))

	state.Fail(models.StepRide, models.ErrorKindTransport, "connection reset")
	err := exitStatus(state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ride")
}
