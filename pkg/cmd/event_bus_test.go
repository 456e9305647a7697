package cmd_test

import (
	"log/slog"
	"testing"

	"github.com/dukex/flyout/pkg/cmd"
	"github.com/dukex/flyout/pkg/channels/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventBus(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	bus, err := cmd.NewEventBus(cmd.EventBusNone, "", logger)
	require.NoError(t, err)
	assert.Nil(t, bus)

	bus, err = cmd.NewEventBus(cmd.EventBusGoChannel, "", logger)
	require.NoError(t, err)
	require.NotNil(t, bus)
	require.NoError(t, bus.Close())

	_, err = cmd.NewEventBus(cmd.EventBusKafka, "", logger)
	require.ErrorIs(t, err, kafka.ErrNoBrokers)

	_, err = cmd.NewEventBus("rabbit", "", logger)
	require.ErrorIs(t, err, cmd.ErrUnsupportedEventBus)
}
