// Package lifecycle coordinates startup, background work, and shutdown for the service.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Coordinator runs startup hooks, tracks background tasks, and drains both
// shutdown hooks and tasks on Shutdown.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	startup  sync.WaitGroup
	shutdown sync.WaitGroup
	tasks    sync.WaitGroup

	ready  atomic.Bool
	active atomic.Int64
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, cancel: cancel}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startup.Go(fn)
}

// OnShutdown registers a function to run concurrently during shutdown.
// Hooks block on <-c.Context().Done() before cleaning up.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdown.Go(fn)
}

// Go runs fn in a tracked goroutine bound to the coordinator context.
// A task started after Shutdown receives an already cancelled context.
func (c *Coordinator) Go(fn func(ctx context.Context)) {
	c.active.Add(1)
	c.tasks.Go(func() {
		defer c.active.Add(-1)
		fn(c.ctx)
	})
}

// Active returns the number of tracked tasks still running.
func (c *Coordinator) Active() int {
	return int(c.active.Load())
}

// Ready reports whether startup completed and shutdown has not begun.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until all startup hooks have completed, then marks
// the coordinator ready.
func (c *Coordinator) WaitForStartup() {
	c.startup.Wait()
	if c.ctx.Err() == nil {
		c.ready.Store(true)
	}
}

// Shutdown cancels the context and waits for shutdown hooks and tracked tasks.
// It returns an error naming the unfinished task count when timeout elapses first.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdown.Wait()
		c.tasks.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v: %d tasks still running", timeout, c.Active())
	}
}
