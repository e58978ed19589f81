package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"imager/internal/core/domain"
	"imager/internal/metrics"

	"github.com/rs/zerolog/log"
)

type job struct {
	key  string
	task func(ctx context.Context) error
}

// Pool runs submitted tasks on a fixed number of workers fed by a bounded queue.
type Pool struct {
	jobs       chan job
	wg         sync.WaitGroup
	mu         sync.RWMutex
	closed     bool
	onComplete func(key string, err error)
}

// NewPool starts workers goroutines. onComplete, when set, is called after every task.
func NewPool(workers, queueSize int, onComplete func(key string, err error)) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	p := &Pool{
		jobs:       make(chan job, queueSize),
		onComplete: onComplete,
	}

	p.wg.Add(workers)
	for range workers {
		go p.work()
	}

	log.Debug().Int("workers", workers).Int("queueSize", queueSize).Msg("worker pool started")

	return p
}

// Submit queues task without blocking. It fails with domain.ErrBusy when the queue is full
// or the pool is shut down.
func (p *Pool) Submit(key string, task func(ctx context.Context) error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return fmt.Errorf("%w: pool is shut down", domain.ErrBusy)
	}

	// counted before the send so a worker's Dec never precedes it
	metrics.QueueDepth.Inc()

	select {
	case p.jobs <- job{key: key, task: task}:
		return nil
	default:
		metrics.QueueDepth.Dec()
		return domain.ErrBusy
	}
}

// Shutdown stops accepting tasks and waits for queued and running tasks to finish or for ctx
// to end.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Debug().Msg("worker pool drained")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker pool shutdown: %w", ctx.Err())
	}
}

func (p *Pool) work() {
	defer p.wg.Done()

	for j := range p.jobs {
		metrics.QueueDepth.Dec()
		p.run(j)
	}
}

func (p *Pool) run(j job) {
	start := time.Now()

	err := safeRun(j)

	l := log.With().Str("key", j.key).Dur("duration", time.Since(start)).Logger()
	if err != nil {
		l.Error().Err(err).Msg("background task failed")
	} else {
		l.Info().Msg("background task finished")
	}

	if p.onComplete != nil {
		p.onComplete(j.key, err)
	}
}

// safeRun runs the task on a context detached from any request.
func safeRun(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", j.key, r)
		}
	}()

	return j.task(context.Background())
}
