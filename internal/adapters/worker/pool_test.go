package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"imager/internal/core/domain"
	"imager/internal/metrics"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completion struct {
	key string
	err error
}

func collect() (func(string, error), func() []completion) {
	var mu sync.Mutex
	var done []completion

	return func(key string, err error) {
			mu.Lock()
			done = append(done, completion{key: key, err: err})
			mu.Unlock()
		}, func() []completion {
			mu.Lock()
			defer mu.Unlock()
			return append([]completion(nil), done...)
		}
}

func TestPoolRunsTasks(t *testing.T) {
	hook, completions := collect()
	p := NewPool(2, 4, hook)

	errBoom := errors.New("boom")
	require.NoError(t, p.Submit("ok", func(ctx context.Context) error { return nil }))
	require.NoError(t, p.Submit("fail", func(ctx context.Context) error { return errBoom }))

	require.NoError(t, p.Shutdown(context.Background()))

	got := map[string]error{}
	for _, c := range completions() {
		got[c.key] = c.err
	}

	assert.Len(t, got, 2)
	assert.NoError(t, got["ok"])
	assert.ErrorIs(t, got["fail"], errBoom)
}

func TestPoolFullQueueIsBusy(t *testing.T) {
	p := NewPool(1, 1, nil)

	release := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, p.Submit("running", func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started

	require.NoError(t, p.Submit("queued", func(ctx context.Context) error { return nil }))

	err := p.Submit("rejected", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, domain.ErrBusy)

	close(release)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestPoolRejectsAfterShutdown(t *testing.T) {
	p := NewPool(1, 1, nil)
	require.NoError(t, p.Shutdown(context.Background()))

	err := p.Submit("late", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, domain.ErrBusy)

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestPoolShutdownHonoursDeadline(t *testing.T) {
	p := NewPool(1, 1, nil)

	release := make(chan struct{})
	defer close(release)

	require.NoError(t, p.Submit("slow", func(ctx context.Context) error {
		<-release
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPoolRecoversPanics(t *testing.T) {
	hook, completions := collect()
	p := NewPool(1, 1, hook)

	require.NoError(t, p.Submit("panics", func(ctx context.Context) error { panic("bad") }))
	require.NoError(t, p.Shutdown(context.Background()))

	got := completions()
	require.Len(t, got, 1)
	assert.ErrorContains(t, got[0].err, "panicked")
}

func TestPoolQueueDepthSettles(t *testing.T) {
	start := gaugeValue(t)

	p := NewPool(1, 1, nil)

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.Submit("running", func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started

	require.NoError(t, p.Submit("queued", func(ctx context.Context) error { return nil }))
	assert.Equal(t, start+1, gaugeValue(t))

	assert.ErrorIs(t, p.Submit("rejected", func(ctx context.Context) error { return nil }), domain.ErrBusy)
	assert.Equal(t, start+1, gaugeValue(t))

	close(release)
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, start, gaugeValue(t))
}

func gaugeValue(t *testing.T) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.QueueDepth.Write(&m))
	return m.GetGauge().GetValue()
}
