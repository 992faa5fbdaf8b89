package profileimages

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var errQueueClosed = errors.New("profile image queue closed")

// QueueConfig controls the concurrency characteristics of the queue.
type QueueConfig struct {
	QueueSize int
	Workers   int
}

// Queue dispatches storage-finalize events to the processor on a worker
// pool. Invocations are independent: workers share no mutable state and no
// ordering between events is assumed.
type Queue struct {
	processor *Processor
	logger    *slog.Logger

	jobs   chan Event
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewQueue starts the worker pool for the provided processor.
func NewQueue(processor *Processor, cfg QueueConfig, logger *slog.Logger) *Queue {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &Queue{
		processor: processor,
		logger:    logger,
		jobs:      make(chan Event, cfg.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}

	q.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go q.worker()
	}

	return q
}

// Enqueue schedules processing of the supplied event.
func (q *Queue) Enqueue(ctx context.Context, event Event) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-q.ctx.Done():
		return errQueueClosed
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-q.ctx.Done():
		return errQueueClosed
	case q.jobs <- event:
		return nil
	}
}

// Shutdown waits for the worker pool to drain outstanding events.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.once.Do(func() {
		q.cancel()
		close(q.jobs)
	})

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()

	for event := range q.jobs {
		if q.processor == nil {
			q.logger.Error("profile image queue missing processor", "object", event.Name)
			continue
		}
		q.processor.Process(context.Background(), event)
	}
}
