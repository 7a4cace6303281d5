package qudit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/theapemachine/errnie"
	"golang.org/x/sync/errgroup"
)

/*
Pool is the parallel Dispatcher. A fixed set of lanes is started once and
reused for every dispatch; a manager hands each queued Job to the next idle
lane. Dispatch blocks its caller until every range of the kernel is done.

Concurrent dispatches are safe: each dispatch waits only on its own jobs.
*/
type Pool struct {
	ctx       context.Context
	cancel    context.CancelFunc
	group     *errgroup.Group
	workers   chan chan Job
	jobs      chan Job
	metrics   *Metrics
	config    *Config
	lanes     []*Worker
	sequence  atomic.Uint64
	closeOnce sync.Once
}

// NewPool starts config.Lanes lanes. At least one lane is required.
func NewPool(ctx context.Context, config *Config) (*Pool, error) {
	if config == nil {
		config = NewConfig()
	}

	if config.Lanes < 1 {
		return nil, fmt.Errorf("pool with %d lanes: %w", config.Lanes, ErrComputeDeviceUnavailable)
	}

	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)

	p := &Pool{
		ctx:     ctx,
		cancel:  cancel,
		group:   group,
		workers: make(chan chan Job, config.Lanes),
		jobs:    make(chan Job, config.Lanes*4),
		metrics: newMetrics(config.Lanes),
		config:  config,
		lanes:   make([]*Worker, 0, config.Lanes),
	}

	for i := 0; i < config.Lanes; i++ {
		p.startWorker(i)
	}

	group.Go(p.manage)

	errnie.Info("compute pool started with %d lanes", config.Lanes)
	return p, nil
}

func (p *Pool) Name() string {
	return BackendParallel
}

func (p *Pool) Metrics() *Metrics {
	return p.metrics
}

/*
Dispatch splits [0, cells) into contiguous jobs and blocks until all of them
have run. Kernels smaller than MinCellsPerJob run inline on the caller.
*/
func (p *Pool) Dispatch(kernel string, cells int, fn func(lo, hi int)) error {
	if cells <= 0 {
		return nil
	}

	if p.ctx.Err() != nil {
		return fmt.Errorf("pool closed: %w", ErrComputeDeviceUnavailable)
	}

	start := time.Now()

	if cells <= p.config.MinCellsPerJob {
		fn(0, cells)
		p.metrics.recordDispatch(kernel, start, cells, 0)
		return nil
	}

	chunk := p.chunkSize(cells)
	count := (cells + chunk - 1) / chunk
	done := make(chan struct{}, count)
	id := p.sequence.Add(1)

	for lo := 0; lo < cells; lo += chunk {
		job := Job{
			ID:        fmt.Sprintf("%s-%d-%d", kernel, id, lo),
			Kernel:    kernel,
			Lo:        lo,
			Hi:        min(lo+chunk, cells),
			Fn:        fn,
			StartTime: start,
			done:      done,
		}

		select {
		case p.jobs <- job:
		case <-p.ctx.Done():
			return fmt.Errorf("pool closed during %s: %w", kernel, ErrComputeDeviceUnavailable)
		}
	}

	for i := 0; i < count; i++ {
		select {
		case <-done:
		case <-p.ctx.Done():
			return fmt.Errorf("pool closed during %s: %w", kernel, ErrComputeDeviceUnavailable)
		}
	}

	p.metrics.recordDispatch(kernel, start, cells, count)
	return nil
}

// chunkSize aims for four jobs per lane, never smaller than MinCellsPerJob.
func (p *Pool) chunkSize(cells int) int {
	target := (cells + p.config.Lanes*4 - 1) / (p.config.Lanes * 4)
	return max(target, p.config.MinCellsPerJob, 1)
}

func (p *Pool) manage() error {
	for {
		select {
		case <-p.ctx.Done():
			return nil
		case job := <-p.jobs:
			select {
			case <-p.ctx.Done():
				return nil
			case lane := <-p.workers:
				select {
				case lane <- job:
				case <-p.ctx.Done():
					return nil
				}
			}
		}
	}
}

func (p *Pool) startWorker(id int) {
	worker := &Worker{
		id:   id,
		pool: p,
		jobs: make(chan Job),
	}

	p.lanes = append(p.lanes, worker)

	p.group.Go(func() error {
		return worker.run(p.ctx)
	})
}

// Close stops every lane and waits for them to exit.
func (p *Pool) Close() error {
	var err error

	p.closeOnce.Do(func() {
		p.cancel()
		err = p.group.Wait()
		errnie.Info("compute pool closed after %d dispatches", p.metrics.ExportMetrics()["dispatch_count"])
	})

	return err
}
