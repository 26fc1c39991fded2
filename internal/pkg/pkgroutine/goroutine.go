package pkgroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 10

// Manager runs functions on a pool with a configurable concurrency limit.
//
// It collects errors returned by tasks and can be waited on using Wait.
type Manager struct {
	mu   sync.Mutex
	errs []error
	wg   sync.WaitGroup
	pool *ants.Pool
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	m := &Manager{}
	// the size is always positive, which is the only way NewPool fails
	pool, _ := ants.NewPool(maxGoroutine, ants.WithPanicHandler(func(rvr any) {
		slog.Error("panic occurred in goroutine", "because", rvr, "stack", string(debug.Stack()))
	}))
	m.pool = pool

	return m
}

// Cap returns the concurrency limit.
func (g *Manager) Cap() int {
	return g.pool.Cap()
}

// Go schedules f on the pool, blocking while the pool is full.
//
// If pCtx is canceled before f starts, f is skipped and a warning is logged.
func (g *Manager) Go(pCtx context.Context, f func(ctx context.Context) error) {
	if err := pCtx.Err(); err != nil {
		slog.WarnContext(pCtx, "goroutine canceled before start", "because", err)
		return
	}

	g.wg.Add(1)
	err := g.pool.Submit(func() {
		defer g.wg.Done()

		if err := pCtx.Err(); err != nil {
			slog.WarnContext(pCtx, "goroutine canceled", "because", err)
			return
		}
		if err := f(pCtx); err != nil {
			g.record(err)
		}
	})
	if err != nil {
		g.wg.Done()
		slog.ErrorContext(pCtx, "failed to submit goroutine", "error", err)
		g.record(err)
	}
}

func (g *Manager) record(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// Wait blocks until all scheduled functions finish and returns any collected errors.
func (g *Manager) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}

// Release waits for running work and frees the pool.
func (g *Manager) Release() error {
	err := g.Wait()
	g.pool.Release()
	return err
}
