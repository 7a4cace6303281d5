package qudit

import (
	"context"
)

// Worker is a single execution lane of the pool.
type Worker struct {
	id   int
	pool *Pool
	jobs chan Job
}

/*
run offers the lane's job channel to the pool, executes whatever job arrives
on it, and repeats until the pool context is cancelled.
*/
func (w *Worker) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case w.pool.workers <- w.jobs:
		}

		select {
		case <-ctx.Done():
			return nil
		case job := <-w.jobs:
			job.run()
			w.pool.metrics.recordJob(w.id, job.Hi-job.Lo)
			job.finish()
		}
	}
}
