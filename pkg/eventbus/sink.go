package eventbus

import (
	"context"

	"github.com/dukex/flyout/pkg/eventlog"
	"github.com/dukex/flyout/pkg/events"
)

// RunSink forwards every appended log entry of a run to the bus, keyed by run id so
// a partitioned broker keeps a run's events in order.
type RunSink struct {
	bus   EventPublisher
	ids   func() string
	runID string
}

func NewRunSink(bus EventBus, runID string) *RunSink {
	return &RunSink{bus: bus, ids: bus.GenerateID, runID: runID}
}

func (s *RunSink) Emit(ctx context.Context, event eventlog.Event) error {
	return s.bus.Publish(ctx, s.runID, events.RunEventAppended{
		BaseEvent: events.BaseEvent{
			ID:        s.ids(),
			Type:      events.RunEventAppendedEvent,
			Timestamp: event.Timestamp,
			RunID:     s.runID,
		},
		Event: event,
	})
}
