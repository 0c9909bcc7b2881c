package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vytor/recallvault/internal/logger"
)

type Job interface {
	Run(context.Context) error
	Name() string
}

// Pool runs submitted jobs on a fixed number of goroutines. Stop drains the
// queue before returning, so every job submitted before Stop is run.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	failed  atomic.Int64
	done    atomic.Int64
	log     *logger.Logger
}

func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	log := logger.Default().WithPrefix("worker-pool")
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		log:     log,
	}
}

// Start launches the workers. Cancelling ctx makes remaining jobs fail fast
// with the context error instead of running.
func (p *Pool) Start(ctx context.Context) {
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			workerLog := p.log.WithField("worker_id", id)
			workerLog.Debug("worker started")

			for job := range p.jobs {
				jobLog := workerLog.WithField("job", job.Name())
				if err := ctx.Err(); err != nil {
					jobLog.Warn("skipping job: %v", err)
					p.failed.Add(1)
					continue
				}

				jobLog.Debug("starting job")
				start := time.Now()
				if err := job.Run(logger.NewContext(ctx, jobLog)); err != nil {
					p.failed.Add(1)
					jobLog.Error("job failed after %v: %v", time.Since(start), err)
				} else {
					p.done.Add(1)
					jobLog.Info("job completed in %v", time.Since(start))
				}
			}
			workerLog.Debug("worker shutting down (queue closed)")
		}(i + 1)
	}
}

// Stop closes the queue and waits for the workers to finish it.
func (p *Pool) Stop() {
	p.log.Info("stopping worker pool")
	close(p.jobs)
	p.wg.Wait()
	p.log.Info("worker pool stopped: completed=%d, failed=%d", p.done.Load(), p.failed.Load())
}

// Submit queues a job, blocking while the queue is full.
func (p *Pool) Submit(job Job) {
	p.log.Debug("submitting job: %s", job.Name())
	p.jobs <- job
}

// Completed returns how many jobs ran without error.
func (p *Pool) Completed() int {
	return int(p.done.Load())
}

// Failed returns how many jobs returned an error or were skipped.
func (p *Pool) Failed() int {
	return int(p.failed.Load())
}
