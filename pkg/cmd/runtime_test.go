package cmd_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dukex/flyout/pkg/cmd"
	"github.com/dukex/flyout/pkg/events"
	"github.com/dukex/flyout/pkg/mockservices"
	"github.com/dukex/flyout/pkg/models"
	"github.com/dukex/flyout/pkg/orchestrator"
	"github.com/dukex/flyout/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestNewRunGuard(t *testing.T) {
	ctx := context.Background()

	guard, closeGuard, err := cmd.NewRunGuard(ctx, "")
	require.NoError(t, err)
	assert.IsType(t, &orchestrator.LocalGuard{}, guard)
	assert.Nil(t, closeGuard)

	mr := miniredis.RunT(t)

	guard, closeGuard, err = cmd.NewRunGuard(ctx, "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	assert.IsType(t, &orchestrator.RedisGuard{}, guard)
	require.NoError(t, closeGuard(ctx))

	_, _, err = cmd.NewRunGuard(ctx, "://nope")
	require.Error(t, err)
}

func TestNewRuntime_PublishesRunEvents(t *testing.T) {
	mock := mockservices.NewServer()
	srv := httptest.NewServer(mock.Router())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var state *models.RunState

	received := make(chan *events.RunEventAppended, 64)

	command := &cli.Command{
		Name:  "test",
		Flags: cmd.ConfigFlags(),
		Action: func(ctx context.Context, command *cli.Command) error {
			runtime, err := cmd.NewRuntime(ctx, command, "flyout-test", orchestrator.NewLocalGuard(), slog.Default())
			if err != nil {
				return err
			}
			defer runtime.Close(ctx, slog.Default())

			require.NotNil(t, runtime.EventBus)
			require.NoError(t, runtime.EventBus.Handle(events.RunEventAppendedEvent, func(_ context.Context, event any) error {
				received <- event.(*events.RunEventAppended)

				return nil
			}))
			require.NoError(t, runtime.EventBus.Subscribe(ctx))

			state, err = runtime.Orchestrator.Start(ctx, testutil.NewInput())
			if err != nil {
				return err
			}

			deadline := time.After(2 * time.Second)

			for {
				select {
				case event := <-received:
					assert.Equal(t, state.ID, event.RunID)

					if event.Terminal() {
						return nil
					}
				case <-deadline:
					t.Fatal("terminal run event was not published")
				}
			}
		},
	}

	require.NoError(t, command.Run(ctx, []string{"test", "--base-url", srv.URL, "--event-bus", cmd.EventBusGoChannel}))
	require.NotNil(t, state)
	assert.Equal(t, models.RunStatusCompleted, state.Status)
}
