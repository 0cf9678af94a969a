package service_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ignatij/vineyard/pkg/service"
	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	t.Run("RunsAllJobs", func(t *testing.T) {
		var ran int64
		jobs := make([]service.Job, 20)
		for i := range jobs {
			jobs[i] = service.Job{ID: fmt.Sprint(i), Run: func(ctx context.Context) error {
				atomic.AddInt64(&ran, 1)
				return nil
			}}
		}
		errs := service.NewWorkerPool(4, time.Second, logger{}).Execute(context.Background(), jobs)
		assert.Empty(t, errs)
		assert.Equal(t, int64(20), atomic.LoadInt64(&ran))
	})

	t.Run("CollectsErrors", func(t *testing.T) {
		jobs := []service.Job{
			{ID: "ok", Run: func(ctx context.Context) error { return nil }},
			{ID: "bad", Run: func(ctx context.Context) error { return fmt.Errorf("boom") }},
		}
		errs := service.NewWorkerPool(0, 0, logger{}).Execute(context.Background(), jobs)
		assert.Len(t, errs, 1)
		assert.EqualError(t, errs["bad"], "boom")
	})

	t.Run("Timeout", func(t *testing.T) {
		jobs := []service.Job{{ID: "slow", Run: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}}}
		errs := service.NewWorkerPool(1, 20*time.Millisecond, logger{}).Execute(context.Background(), jobs)
		assert.ErrorIs(t, errs["slow"], context.DeadlineExceeded)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var ran int64
		jobs := []service.Job{
			{ID: "a", Run: func(ctx context.Context) error { atomic.AddInt64(&ran, 1); return nil }},
			{ID: "b", Run: func(ctx context.Context) error { atomic.AddInt64(&ran, 1); return nil }},
		}
		errs := service.NewWorkerPool(1, time.Second, logger{}).Execute(ctx, jobs)
		assert.Len(t, errs, 2)
		assert.Equal(t, int64(0), atomic.LoadInt64(&ran))
	})
}
