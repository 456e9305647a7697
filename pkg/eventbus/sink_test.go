package eventbus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dukex/flyout/pkg/eventbus"
	"github.com/dukex/flyout/pkg/eventlog"
	"github.com/dukex/flyout/pkg/events"
	"github.com/dukex/flyout/pkg/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRunSink_KeysByRunID(t *testing.T) {
	t.Parallel()

	bus := &mocks.MockEventBus{}
	bus.On("GenerateID").Return("evt-1")
	bus.On("Publish", mock.Anything, "run-7", mock.MatchedBy(func(e eventbus.Event) bool {
		appended, ok := e.(events.RunEventAppended)

		return ok && appended.RunID == "run-7" && appended.ID == "evt-1" && appended.Event.Message == "Flight booked"
	})).Return(nil)

	log := eventlog.New(eventlog.WithSinks(eventbus.NewRunSink(bus, "run-7")))
	log.Append(context.Background(), eventlog.KindSuccess, "flight", "Flight booked", nil)

	bus.AssertExpectations(t)
}

func TestRunSink_PublishFailureDoesNotReachTheRun(t *testing.T) {
	t.Parallel()

	bus := &mocks.MockEventBus{}
	bus.On("GenerateID").Return("evt-1")
	bus.On("Publish", mock.Anything, "run-7", mock.Anything).Return(errors.New("broker unavailable"))

	log := eventlog.New(eventlog.WithSinks(eventbus.NewRunSink(bus, "run-7")))
	event := log.Append(context.Background(), eventlog.KindInfo, "", "Starting", nil)

	assert.Equal(t, 1, event.Seq)
	assert.Equal(t, 1, log.Len())
	bus.AssertNumberOfCalls(t, "Publish", 1)
}
