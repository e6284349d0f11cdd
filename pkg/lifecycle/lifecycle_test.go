package lifecycle_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/taxon/pkg/lifecycle"
)

func TestReadiness(t *testing.T) {
	lc := lifecycle.New()
	assert.False(t, lc.Ready(), "ready before WaitForStartup")

	lc.WaitForStartup()
	assert.True(t, lc.Ready())

	require.NoError(t, lc.Shutdown(time.Second))
	assert.False(t, lc.Ready(), "ready after shutdown")
}

func TestStartupHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	for range 3 {
		lc.OnStartup(func() { count.Add(1) })
	}

	lc.WaitForStartup()
	assert.Equal(t, int32(3), count.Load())
}

func TestShutdownWaitsForHooksAndTasks(t *testing.T) {
	lc := lifecycle.New()

	var cleaned, taskDone atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})
	lc.Go(func(ctx context.Context) {
		<-ctx.Done()
		taskDone.Store(true)
	})

	require.NoError(t, lc.Shutdown(5*time.Second))
	assert.True(t, cleaned.Load())
	assert.True(t, taskDone.Load())
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	defer close(release)
	lc.Go(func(context.Context) { <-release })

	err := lc.Shutdown(20 * time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown timeout")
}

func TestContextCancelledOnShutdown(t *testing.T) {
	lc := lifecycle.New()
	require.NoError(t, lc.Shutdown(time.Second))

	select {
	case <-lc.Context().Done():
	default:
		t.Fatal("context not cancelled after shutdown")
	}
}

func TestActiveCountsTrackedTasks(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	started := make(chan struct{})
	lc.Go(func(context.Context) {
		close(started)
		<-release
	})

	<-started
	assert.Equal(t, 1, lc.Active())

	close(release)
	require.NoError(t, lc.Shutdown(time.Second))
	assert.Equal(t, 0, lc.Active())
}

func TestNotReadyAfterEarlyShutdown(t *testing.T) {
	lc := lifecycle.New()
	require.NoError(t, lc.Shutdown(time.Second))

	lc.WaitForStartup()
	assert.False(t, lc.Ready())
}
