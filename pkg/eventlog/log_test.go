package eventlog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dukex/flyout/pkg/eventlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	n := 0

	return func() time.Time {
		n++

		return base.Add(time.Duration(n) * time.Second)
	}
}

func TestLog_AppendKeepsOrder(t *testing.T) {
	t.Parallel()

	l := eventlog.New(eventlog.WithClock(fixedClock()))
	ctx := context.Background()

	l.Append(ctx, eventlog.KindInfo, "", "starting", nil)
	l.Append(ctx, eventlog.KindAction, "flight", "booking flight", nil)
	l.Append(ctx, eventlog.KindSuccess, "flight", "flight booked", map[string]any{"id": "F1"})

	events := l.Events()
	require.Len(t, events, 3)

	for i, e := range events {
		assert.Equal(t, i+1, e.Seq)

		if i > 0 {
			assert.True(t, e.Timestamp.After(events[i-1].Timestamp))
		}
	}

	assert.Equal(t, []eventlog.Kind{eventlog.KindInfo, eventlog.KindAction, eventlog.KindSuccess}, l.Kinds())

	last, ok := l.Last()
	require.True(t, ok)
	assert.Equal(t, "flight booked", last.Message)
}

func TestLog_EventsReturnsCopy(t *testing.T) {
	t.Parallel()

	l := eventlog.New()
	l.Append(context.Background(), eventlog.KindInfo, "", "one", nil)

	events := l.Events()
	events[0].Message = "mutated"

	assert.Equal(t, "one", l.Events()[0].Message)
}

func TestLog_Empty(t *testing.T) {
	t.Parallel()

	l := eventlog.New()
	_, ok := l.Last()
	assert.False(t, ok)
	assert.Zero(t, l.Len())
	assert.Empty(t, l.Kinds())
}

func TestLog_SinksReceiveEveryEvent(t *testing.T) {
	t.Parallel()

	var seen []string

	recorder := eventlog.SinkFunc(func(_ context.Context, e eventlog.Event) error {
		seen = append(seen, e.Message)

		return nil
	})
	failing := eventlog.SinkFunc(func(context.Context, eventlog.Event) error {
		return errors.New("sink down")
	})

	l := eventlog.New(eventlog.WithSinks(failing, recorder))
	l.Append(context.Background(), eventlog.KindInfo, "", "a", nil)
	l.Append(context.Background(), eventlog.KindWarning, "arrival", "b", nil)

	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, 2, l.Len())
}

func TestLog_Filter(t *testing.T) {
	t.Parallel()

	l := eventlog.New()
	ctx := context.Background()
	l.Append(ctx, eventlog.KindWarning, "arrival", "fallback", nil)
	l.Append(ctx, eventlog.KindSuccess, "ride", "ok", nil)
	l.Append(ctx, eventlog.KindWarning, "summary", "skipped", nil)

	warnings := l.Filter(eventlog.KindWarning)
	require.Len(t, warnings, 2)
	assert.Equal(t, "arrival", warnings[0].Step)
	assert.Equal(t, "summary", warnings[1].Step)
}
