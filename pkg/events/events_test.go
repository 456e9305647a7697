package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dukex/flyout/pkg/eventlog"
	"github.com/dukex/flyout/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEventAppended_JSON(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	event := events.RunEventAppended{
		BaseEvent: events.BaseEvent{
			ID:        "evt-1",
			Type:      events.RunEventAppendedEvent,
			Timestamp: ts,
			RunID:     "run-1",
		},
		Event: eventlog.Event{Seq: 3, Timestamp: ts, Kind: eventlog.KindWarning, Step: "arrival", Message: "fallback"},
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded events.RunEventAppended
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, event, decoded)
	assert.Equal(t, events.RunEventAppendedEvent, decoded.GetType())
}

func TestRunEventAppended_Terminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		event eventlog.Event
		want  bool
	}{
		{eventlog.Event{Kind: eventlog.KindDone}, true},
		{eventlog.Event{Kind: eventlog.KindFatal, Step: "ride"}, true},
		{eventlog.Event{Kind: eventlog.KindError, Step: "validate"}, true},
		{eventlog.Event{Kind: eventlog.KindError, Step: "ride"}, false},
		{eventlog.Event{Kind: eventlog.KindWarning, Step: "summary"}, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, events.RunEventAppended{Event: tt.event}.Terminal(), tt.event)
	}
}
