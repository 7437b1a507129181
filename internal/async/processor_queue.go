package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/invozen/invoice-extractor/internal/pipeline"
)

// Results collects records by submission index. Documents share no state, so
// workers may process them in any order; the collector restores row order.
type Results struct {
	mu   sync.Mutex
	recs []pipeline.Record
}

func NewResults(n int) *Results {
	return &Results{recs: make([]pipeline.Record, n)}
}

func (r *Results) put(index int, rec pipeline.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index >= 0 && index < len(r.recs) {
		r.recs[index] = rec
	}
}

// Records returns the collected records in submission order. Call after the
// queue has drained.
func (r *Results) Records() []pipeline.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]pipeline.Record, len(r.recs))
	copy(out, r.recs)
	return out
}

// ProcessorQueue fans staged documents out to a fixed worker pool over the
// per-document processor. The reference behavior is a single worker
// (sequential, upload order); more workers only change throughput, never the
// result, because records are collected by index.
type ProcessorQueue struct {
	proc    *pipeline.Processor
	results *Results
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewProcessorQueue(proc *pipeline.Processor, results *Results, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		results: results,
		logger:  logger,
		workers: 1,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					rec := q.proc.ProcessFile(ctx, job.Path)
					cancel()
					q.results.put(job.Index, rec)
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return nil
	}
	select {
	case q.ch <- job:
	default:
		q.logger.Warn("queue full, applying backpressure", "path", job.Path)
		q.ch <- job
	}
	return nil
}

// Shutdown closes intake and waits for the workers to drain the queue.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
