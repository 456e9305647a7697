package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dukex/flyout/pkg/log"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultGuardKey   = "flyout:run:active"
	DefaultGuardLease = time.Hour
)

// releaseScript deletes the key only while it still holds the caller's token, so a
// run whose lease expired cannot release a newer run's guard.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisGuard shares the single-run rule across API replicas. The lease is renewed
// while the run holds it and only lapses when the holder stops renewing.
type RedisGuard struct {
	client     redis.UniversalClient
	key        string
	lease      time.Duration
	renewEvery time.Duration
	logger     *slog.Logger

	mu       sync.Mutex
	renewals map[string]context.CancelFunc
}

type RedisGuardOption func(*RedisGuard)

func WithGuardKey(key string) RedisGuardOption {
	return func(g *RedisGuard) {
		g.key = key
	}
}

// WithGuardLease bounds how long a crashed process can block new runs.
func WithGuardLease(lease time.Duration) RedisGuardOption {
	return func(g *RedisGuard) {
		g.lease = lease
	}
}

// WithGuardRenewInterval sets how often a held lease is extended. Defaults to a third of the lease.
func WithGuardRenewInterval(every time.Duration) RedisGuardOption {
	return func(g *RedisGuard) {
		g.renewEvery = every
	}
}

func WithGuardLogger(logger *slog.Logger) RedisGuardOption {
	return func(g *RedisGuard) {
		g.logger = logger
	}
}

func NewRedisGuard(client redis.UniversalClient, opts ...RedisGuardOption) *RedisGuard {
	g := &RedisGuard{
		client:   client,
		key:      DefaultGuardKey,
		lease:    DefaultGuardLease,
		logger:   log.WithModule("run_guard"),
		renewals: make(map[string]context.CancelFunc),
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.renewEvery <= 0 {
		g.renewEvery = g.lease / 3
	}

	return g
}

func (g *RedisGuard) TryAcquire(ctx context.Context, runID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key, runID, g.lease).Result()
	if err != nil || !ok {
		return ok, err
	}

	g.keepAlive(ctx, runID)

	return true, nil
}

func (g *RedisGuard) Release(ctx context.Context, runID string) error {
	g.stopRenewal(runID)

	return releaseScript.Run(ctx, g.client, []string{g.key}, runID).Err()
}

func (g *RedisGuard) Held(ctx context.Context) (bool, error) {
	err := g.client.Get(ctx, g.key).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

func (g *RedisGuard) keepAlive(ctx context.Context, runID string) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	g.mu.Lock()
	if previous, ok := g.renewals[runID]; ok {
		previous()
	}
	g.renewals[runID] = cancel
	g.mu.Unlock()

	go g.renew(ctx, runID)
}

func (g *RedisGuard) renew(ctx context.Context, runID string) {
	logger := g.logger.With(log.RunID(runID))

	ticker := time.NewTicker(g.renewEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		renewed, err := renewScript.Run(ctx, g.client, []string{g.key}, runID, g.lease.Milliseconds()).Int()
		if err != nil {
			if ctx.Err() != nil {
				return
			}

			logger.WarnContext(ctx, "failed to renew run guard lease", log.Error(err))

			continue
		}

		if renewed == 0 {
			logger.WarnContext(ctx, "run guard lease lost, stopping renewal")

			return
		}
	}
}

func (g *RedisGuard) stopRenewal(runID string) {
	g.mu.Lock()
	cancel, ok := g.renewals[runID]
	delete(g.renewals, runID)
	g.mu.Unlock()

	if ok {
		cancel()
	}
}
