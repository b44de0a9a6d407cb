package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Task is a named unit of background work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Queue runs fire-and-forget tasks on a bounded set of workers. Failures are
// logged and never propagate to the enqueuing request. A full queue drops the
// task rather than blocking the caller.
type Queue struct {
	tasks   chan Task
	timeout time.Duration
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewQueue creates a queue with the given number of workers and buffer size.
// Each task runs under its own timeout, detached from any request context.
func NewQueue(workers, buffer int, timeout time.Duration) *Queue {
	if workers < 1 {
		workers = 1
	}
	if buffer < 1 {
		buffer = 16
	}
	q := &Queue{
		tasks:   make(chan Task, buffer),
		timeout: timeout,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Enqueue schedules a task and reports whether it was accepted.
func (q *Queue) Enqueue(task Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	select {
	case q.tasks <- task:
		return true
	default:
		log.Warn().Str("task", task.Name).Msg("Background task queue full, dropping task")
		return false
	}
}

// Close stops accepting tasks and waits for in-flight tasks to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for task := range q.tasks {
		q.run(task)
	}
}

func (q *Queue) run(task Task) {
	ctx := context.Background()
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("task", task.Name).Interface("panic", r).Msg("Background task panicked")
		}
	}()
	if err := task.Run(ctx); err != nil {
		log.Error().Err(err).Str("task", task.Name).Msg("Background task failed")
	}
}
