package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/qdconsortium/qdw-api/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
	taskTimeout    = 30 * time.Second
)

// task is a named unit of detached work.
type task struct {
	name string
	run  func(ctx context.Context) error
}

// Dispatcher runs fire-and-forget work (archive uploads, news cache writes)
// off the request path. Task failures are logged and counted, never
// surfaced to the request that submitted them.
type Dispatcher struct {
	tasks chan task
	log   zerolog.Logger
}

// NewDispatcher creates a Dispatcher and starts its workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		tasks: make(chan task, channelBuffer),
		log:   log,
	}
	for i := 0; i < numWorkers; i++ {
		go d.runWorker(i)
	}
	return d
}

// Submit enqueues a task without blocking. When the buffer is full the task
// is dropped and logged — the best-effort contract allows it.
func (d *Dispatcher) Submit(name string, fn func(ctx context.Context) error) {
	select {
	case d.tasks <- task{name: name, run: fn}:
	default:
		d.log.Warn().Str("task", name).Msg("background queue full, task dropped")
		metrics.BackgroundTasksTotal.WithLabelValues(name, "dropped").Inc()
	}
}

func (d *Dispatcher) runWorker(id int) {
	for t := range d.tasks {
		// Each task gets its own context: the originating request has
		// usually completed by the time the task runs.
		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		if err := t.run(ctx); err != nil {
			d.log.Error().Err(err).
				Str("task", t.name).
				Int("worker_id", id).
				Msg("background task failed")
			metrics.BackgroundTasksTotal.WithLabelValues(t.name, "error").Inc()
		} else {
			metrics.BackgroundTasksTotal.WithLabelValues(t.name, "ok").Inc()
		}
		cancel()
	}
}

// Close stops accepting tasks; running workers drain the channel.
func (d *Dispatcher) Close() {
	close(d.tasks)
}
