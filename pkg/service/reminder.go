package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ignatij/vineyard/pkg/models"
	"github.com/ignatij/vineyard/pkg/storage"
	"github.com/pkg/errors"
)

// CheckUpcomingTasks walks every farm and raises a reminder for each pending
// task due after today and at most ReminderWindowDays ahead, unless the farm
// already has a reminder mentioning the task. Tasks due today are skipped
// since their midnight deadline has passed. It returns the number of alerts
// created.
func (s *FarmService) CheckUpcomingTasks(ctx context.Context) (int, error) {
	farms, err := s.store.ListFarms()
	if err != nil {
		return 0, errors.Wrap(err, "list farms")
	}

	var created int64
	jobs := make([]Job, 0, len(farms))
	for _, farm := range farms {
		jobs = append(jobs, Job{
			ID: farm.ID,
			Run: func(ctx context.Context) error {
				n, err := s.remindFarm(ctx, farm)
				atomic.AddInt64(&created, int64(n))
				return err
			},
		})
	}

	pool := NewWorkerPool(s.cfg.ReminderWorkers, DefaultJobTimeout, s.logger)
	failed := pool.Execute(ctx, jobs)
	total := int(atomic.LoadInt64(&created))
	s.logger.Infof("Reminder sweep checked %d farms, created %d alerts", len(farms), total)
	if len(failed) > 0 {
		return total, sweepError(failed)
	}
	return total, nil
}

func (s *FarmService) remindFarm(ctx context.Context, farm models.Farm) (int, error) {
	sched, err := s.store.GetScheduleByFarm(farm.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "schedule of farm %s", farm.ID)
	}

	today := s.today()
	horizon := today.AddDays(s.cfg.ReminderWindowDays)
	created := 0
	for _, task := range sched.Tasks {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		if task.Status != models.PendingTaskStatus || !task.DueDate.After(today) || task.DueDate.After(horizon) {
			continue
		}
		alert := s.newAlert(farm.UserID, farm.ID, models.TaskReminderAlertType,
			reminderMessage(task, farm), task.DueDate.In(time.UTC))
		saved, err := s.store.SaveAlertIfAbsent(alert, task.Title)
		if err != nil {
			return created, errors.Wrapf(err, "save reminder for task %s", task.ID)
		}
		if !saved {
			continue
		}
		created++
	}
	return created, nil
}

// RunReminders sweeps every interval until ctx is done.
func (s *FarmService) RunReminders(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.CheckUpcomingTasks(ctx); err != nil {
				s.logger.Errorf("Reminder sweep failed: %v", err)
			}
		}
	}
}

func sweepError(failed map[string]error) error {
	ids := make([]string, 0, len(failed))
	for id := range failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	msgs := make([]string, 0, len(ids))
	for _, id := range ids {
		msgs = append(msgs, fmt.Sprintf("farm %s: %v", id, failed[id]))
	}
	return errors.Errorf("reminder sweep failed for %d farms: %s", len(ids), strings.Join(msgs, "; "))
}
