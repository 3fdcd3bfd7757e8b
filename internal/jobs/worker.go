package jobs

import (
	"context"
	"log"
	"time"
)

// JobProcessor runs one pass over queued work. GenerationWorker implements
// it by claiming pending generation jobs and producing cards for their decks.
type JobProcessor interface {
	ProcessJobs(ctx context.Context) error
}

// Worker drives a JobProcessor on a fixed poll interval. The interval bounds
// how long a freshly queued deck waits before generation begins.
type Worker struct {
	processor JobProcessor
	interval  time.Duration
	stop      chan struct{}
	done      chan struct{}
}

// NewWorker wraps processor in a polling worker.
func NewWorker(processor JobProcessor, interval time.Duration) *Worker {
	return &Worker{
		processor: processor,
		interval:  interval,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start polls until the context is cancelled or Stop is called. Each tick
// drains whatever jobs are pending; a failed pass is logged and retried on
// the next tick.
func (w *Worker) Start(ctx context.Context) {
	defer close(w.done)

	log.Printf("generation worker polling every %v", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("generation worker stopping: context cancelled")
			return
		case <-w.stop:
			log.Println("generation worker stopping")
			return
		case <-ticker.C:
			if err := w.processor.ProcessJobs(ctx); err != nil {
				log.Printf("generation pass failed: %v", err)
			}
		}
	}
}

// Stop signals the worker and waits for the in-flight pass to finish.
func (w *Worker) Stop() {
	close(w.stop)
	<-w.done
	log.Println("generation worker shut down")
}
