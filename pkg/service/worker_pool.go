package service

import (
	"context"
	"runtime"
	"sync"
	"time"
)

const (
	// default job timeout is 1m
	DefaultJobTimeout = 60 * time.Second
)

// Job is a unit of work run by the WorkerPool.
type Job struct {
	ID  string
	Run func(ctx context.Context) error
}

// WorkerPool runs jobs on a fixed number of goroutines
type WorkerPool struct {
	workers int
	timeout time.Duration
	logger  Logger
}

func NewWorkerPool(workers int, timeout time.Duration, logger Logger) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	return &WorkerPool{workers: workers, timeout: timeout, logger: logger}
}

// Execute runs all jobs and blocks until they are done. The returned map
// holds the error of every failed job by ID. Jobs not started before ctx is
// cancelled fail with ctx.Err().
func (wp *WorkerPool) Execute(ctx context.Context, jobs []Job) map[string]error {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		errs   = make(map[string]error)
		jobCh  = make(chan Job, wp.workers)
		record = func(id string, err error) {
			mu.Lock()
			errs[id] = err
			mu.Unlock()
		}
	)

	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				if err := ctx.Err(); err != nil {
					record(job.ID, err)
					continue
				}
				if err := wp.run(ctx, job); err != nil {
					wp.logger.Errorf("Job %s failed: %v", job.ID, err)
					record(job.ID, err)
				}
			}
		}()
	}

	for i, job := range jobs {
		select {
		case jobCh <- job:
			continue
		case <-ctx.Done():
			wp.logger.Infof("Context cancelled, skipping %d remaining jobs: %v", len(jobs)-i, ctx.Err())
			for _, skipped := range jobs[i:] {
				record(skipped.ID, ctx.Err())
			}
		}
		break
	}
	close(jobCh)
	wg.Wait()

	return errs
}

func (wp *WorkerPool) run(ctx context.Context, job Job) error {
	jobCtx, cancel := context.WithTimeout(ctx, wp.timeout)
	defer cancel()
	return job.Run(jobCtx)
}
