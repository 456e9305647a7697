package orchestrator_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dukex/flyout/pkg/orchestrator"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisGuard(t *testing.T, opts ...orchestrator.RedisGuardOption) (*orchestrator.RedisGuard, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return orchestrator.NewRedisGuard(client, opts...), mr
}

func TestRedisGuard_SingleHolder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	guard, mr := newRedisGuard(t)

	ok, err := guard.TryAcquire(ctx, "run-a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.TryAcquire(ctx, "run-b")
	require.NoError(t, err)
	assert.False(t, ok)

	held, err := guard.Held(ctx)
	require.NoError(t, err)
	assert.True(t, held)

	value, err := mr.Get(orchestrator.DefaultGuardKey)
	require.NoError(t, err)
	assert.Equal(t, "run-a", value)
	assert.Equal(t, orchestrator.DefaultGuardLease, mr.TTL(orchestrator.DefaultGuardKey))

	require.NoError(t, guard.Release(ctx, "run-a"))

	held, err = guard.Held(ctx)
	require.NoError(t, err)
	assert.False(t, held)
}

func TestRedisGuard_ReleaseChecksToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	guard, _ := newRedisGuard(t)

	ok, err := guard.TryAcquire(ctx, "run-a")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, guard.Release(ctx, "run-b"))

	held, err := guard.Held(ctx)
	require.NoError(t, err)
	assert.True(t, held)

	require.NoError(t, guard.Release(ctx, "run-a"))
}

func TestRedisGuard_LeaseExpires(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	guard, mr := newRedisGuard(t, orchestrator.WithGuardKey("test:guard"), orchestrator.WithGuardLease(time.Minute))

	ok, err := guard.TryAcquire(ctx, "run-a")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = guard.TryAcquire(ctx, "run-b")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, guard.Release(ctx, "run-a"))

	value, err := mr.Get("test:guard")
	require.NoError(t, err)
	assert.Equal(t, "run-b", value)

	require.NoError(t, guard.Release(ctx, "run-b"))
}

func TestRedisGuard_RenewsLeaseWhileHeld(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	guard, mr := newRedisGuard(t,
		orchestrator.WithGuardLease(time.Minute),
		orchestrator.WithGuardRenewInterval(10*time.Millisecond),
	)

	ok, err := guard.TryAcquire(ctx, "run-a")
	require.NoError(t, err)
	require.True(t, ok)

	for range 3 {
		mr.FastForward(50 * time.Second)

		assert.Eventually(t, func() bool {
			return mr.TTL(orchestrator.DefaultGuardKey) == time.Minute
		}, time.Second, 5*time.Millisecond)
	}

	ok, err = guard.TryAcquire(ctx, "run-b")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, guard.Release(ctx, "run-a"))
	assert.False(t, mr.Exists(orchestrator.DefaultGuardKey))
}

func TestRedisGuard_StopsRenewingAnotherHoldersKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	guard, mr := newRedisGuard(t,
		orchestrator.WithGuardLease(time.Minute),
		orchestrator.WithGuardRenewInterval(5*time.Millisecond),
	)

	ok, err := guard.TryAcquire(ctx, "run-a")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, mr.Set(orchestrator.DefaultGuardKey, "run-b"))

	assert.Never(t, func() bool {
		return mr.TTL(orchestrator.DefaultGuardKey) != 0
	}, 50*time.Millisecond, 5*time.Millisecond)

	require.NoError(t, guard.Release(ctx, "run-a"))

	value, err := mr.Get(orchestrator.DefaultGuardKey)
	require.NoError(t, err)
	assert.Equal(t, "run-b", value)
}

func TestLocalGuard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	guard := orchestrator.NewLocalGuard()

	ok, _ := guard.TryAcquire(ctx, "a")
	assert.True(t, ok)

	ok, _ = guard.TryAcquire(ctx, "b")
	assert.False(t, ok)

	require.NoError(t, guard.Release(ctx, "a"))

	ok, _ = guard.TryAcquire(ctx, "b")
	assert.True(t, ok)
}
