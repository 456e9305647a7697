package orchestrator

import (
	"context"
	"sync/atomic"
)

// RunGuard admits at most one active run.
type RunGuard interface {
	// TryAcquire returns false, without error, when another run holds the guard.
	TryAcquire(ctx context.Context, runID string) (bool, error)
	Release(ctx context.Context, runID string) error
	Held(ctx context.Context) (bool, error)
}

// LocalGuard serializes runs within one process.
type LocalGuard struct {
	held atomic.Bool
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{}
}

func (g *LocalGuard) TryAcquire(context.Context, string) (bool, error) {
	return g.held.CompareAndSwap(false, true), nil
}

func (g *LocalGuard) Release(context.Context, string) error {
	g.held.Store(false)

	return nil
}

func (g *LocalGuard) Held(context.Context) (bool, error) {
	return g.held.Load(), nil
}
