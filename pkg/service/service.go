package service

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/ignatij/vineyard/pkg/calendar"
	"github.com/ignatij/vineyard/pkg/models"
	"github.com/ignatij/vineyard/pkg/planner"
	"github.com/ignatij/vineyard/pkg/storage"
	"github.com/pkg/errors"
)

// Logger defines the logging interface for FarmService
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Config tunes alert generation.
type Config struct {
	UpcomingAlertDays  int // tasks starting within this many days get an alert on schedule creation
	UpcomingAlertLimit int // at most this many of them
	ReminderWindowDays int // pending tasks due within this many days get a reminder
	ReminderWorkers    int // reminder sweep concurrency, 0 means NumCPU
}

func DefaultConfig() Config {
	return Config{
		UpcomingAlertDays:  7,
		UpcomingAlertLimit: 3,
		ReminderWindowDays: 3,
	}
}

type Option func(*FarmService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *FarmService) { s.now = now }
}

func WithConfig(cfg Config) Option {
	return func(s *FarmService) { s.cfg = cfg }
}

// FarmService manages farms, their schedules and the alerts they raise.
type FarmService struct {
	store  storage.Store
	logger Logger
	cfg    Config
	now    func() time.Time
}

func NewFarmService(store storage.Store, logger Logger, opts ...Option) *FarmService {
	s := &FarmService{
		store:  store,
		logger: logger,
		cfg:    DefaultConfig(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FarmService) today() civil.Date {
	return civil.DateOf(s.now())
}

// inTx runs fn in a transaction, committing on success and rolling back on error.
func (s *FarmService) inTx(fn func(tx storage.Store) error) (err error) {
	txStore, err := s.store.Begin()
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			if rollbackErr := txStore.Rollback(); rollbackErr != nil {
				s.logger.Errorf("Failed to rollback after error: %v (original error: %v)", rollbackErr, err)
			}
			return
		}
		if commitErr := txStore.Commit(); commitErr != nil {
			s.logger.Errorf("Failed to commit: %v", commitErr)
			err = commitErr
		}
	}()
	return fn(txStore)
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return errors.Wrap(ErrInvalidInput, "user id is required")
	}
	return nil
}

// CreateFarm stores a new farm for userID.
func (s *FarmService) CreateFarm(userID string, req CreateFarmRequest) (models.Farm, error) {
	if err := requireUser(userID); err != nil {
		return models.Farm{}, err
	}
	if err := Validate(req); err != nil {
		return models.Farm{}, err
	}

	spacing := planner.RecommendedSpacing(req.GrapeVariety)
	if req.PlantWidthSpacing > 0 {
		spacing.Width = req.PlantWidthSpacing
	}
	if req.PlantLengthSpacing > 0 {
		spacing.Length = req.PlantLengthSpacing
	}

	now := s.now()
	farm := models.Farm{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		Length:       req.Length,
		Width:        req.Width,
		GrapeVariety: strings.TrimSpace(req.GrapeVariety),
		PlantSpacing: spacing,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.SaveFarm(farm); err != nil {
		return models.Farm{}, errors.Wrap(err, "create farm")
	}
	s.logger.Infof("Created farm '%s' with ID %s for user %s", farm.Name, farm.ID, userID)
	return farm, nil
}

// GetFarm fetches a farm owned by userID.
func (s *FarmService) GetFarm(userID, farmID string) (models.Farm, error) {
	if err := requireUser(userID); err != nil {
		return models.Farm{}, err
	}
	farm, err := s.store.GetFarm(farmID)
	if err != nil {
		return models.Farm{}, errors.Wrapf(err, "farm %s", farmID)
	}
	if farm.UserID != userID {
		return models.Farm{}, errors.Wrapf(ErrForbidden, "farm %s", farmID)
	}
	return farm, nil
}

func (s *FarmService) ListFarms(userID string) ([]models.Farm, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.store.ListFarmsByUser(userID)
}

// DeleteFarm removes a farm together with its schedule and alerts.
func (s *FarmService) DeleteFarm(userID, farmID string) error {
	if _, err := s.GetFarm(userID, farmID); err != nil {
		return err
	}
	if err := s.inTx(func(tx storage.Store) error {
		return tx.DeleteFarm(farmID)
	}); err != nil {
		return errors.Wrapf(err, "delete farm %s", farmID)
	}
	s.logger.Infof("Deleted farm %s", farmID)
	return nil
}

// FarmDetails returns a farm with its schedule, if any, its layout and the
// comments of its consultant.
func (s *FarmService) FarmDetails(userID, farmID string) (models.FarmDetails, error) {
	farm, err := s.GetFarm(userID, farmID)
	if err != nil {
		return models.FarmDetails{}, err
	}
	return s.details(farm)
}

func (s *FarmService) details(farm models.Farm) (models.FarmDetails, error) {
	details := models.FarmDetails{Farm: farm, Layout: planner.FarmLayout(farm)}
	sched, err := s.store.GetScheduleByFarm(farm.ID)
	switch {
	case err == nil:
		details.Schedule = &sched
	case !errors.Is(err, storage.ErrNotFound):
		return models.FarmDetails{}, errors.Wrapf(err, "schedule of farm %s", farm.ID)
	}
	comments, err := s.store.ListCommentsByFarm(farm.ID)
	if err != nil {
		return models.FarmDetails{}, errors.Wrapf(err, "comments of farm %s", farm.ID)
	}
	details.Comments = comments
	return details, nil
}

// GenerateSchedule builds the timeline of a farm from its variety and the
// given ISO planting date. An existing schedule is replaced in place and
// alerts are raised for the first tasks starting soon.
func (s *FarmService) GenerateSchedule(userID, farmID, plantingDate string) (models.Schedule, error) {
	farm, err := s.GetFarm(userID, farmID)
	if err != nil {
		return models.Schedule{}, err
	}
	planting, err := planner.ParseDate(plantingDate)
	if err != nil {
		return models.Schedule{}, errors.Wrap(ErrInvalidInput, err.Error())
	}
	tasks, err := planner.GenerateTimeline(farm.GrapeVariety, planting)
	if err != nil {
		return models.Schedule{}, errors.Wrap(ErrInvalidInput, err.Error())
	}

	now := s.now()
	sched := models.Schedule{
		ID:           uuid.NewString(),
		FarmID:       farmID,
		PlantingDate: planting,
		EndDate:      planner.EndDate(planting),
		CreatedAt:    now,
		UpdatedAt:    now,
		Tasks:        tasks,
	}
	err = s.inTx(func(tx storage.Store) error {
		existing, err := tx.GetScheduleByFarm(farmID)
		switch {
		case err == nil:
			sched.ID = existing.ID
			sched.CreatedAt = existing.CreatedAt
		case !errors.Is(err, storage.ErrNotFound):
			return errors.Wrapf(err, "schedule of farm %s", farmID)
		}
		// A concurrent first generation may have won the insert; adopt its id.
		id, err := tx.SaveSchedule(sched)
		if err != nil {
			return err
		}
		sched.ID = id
		for _, task := range s.upcomingTasks(tasks) {
			alert := s.newAlert(userID, farmID, models.TaskAlertType,
				fmt.Sprintf("Upcoming task: %s - %s", task.Title, task.Description),
				task.DueDate.In(time.UTC))
			if err := tx.SaveAlert(alert); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Schedule{}, errors.Wrapf(err, "save schedule of farm %s", farmID)
	}
	s.logger.Infof("Generated schedule %s with %d tasks for farm %s", sched.ID, len(tasks), farmID)
	return sched, nil
}

// upcomingTasks picks the tasks starting within UpcomingAlertDays, overdue
// ones included, capped at UpcomingAlertLimit.
func (s *FarmService) upcomingTasks(tasks []models.Task) []models.Task {
	horizon := s.today().AddDays(s.cfg.UpcomingAlertDays)
	var out []models.Task
	for _, t := range tasks {
		if len(out) >= s.cfg.UpcomingAlertLimit {
			break
		}
		if !t.StartDate.After(horizon) {
			out = append(out, t)
		}
	}
	return out
}

func (s *FarmService) newAlert(userID, farmID string, t models.AlertType, msg string, date time.Time) models.Alert {
	var farm *string
	if farmID != "" {
		farm = &farmID
	}
	return models.Alert{
		ID:        uuid.NewString(),
		UserID:    userID,
		FarmID:    farm,
		Message:   msg,
		Type:      t,
		Date:      date,
		CreatedAt: s.now(),
	}
}

// GetSchedule returns the schedule of a farm owned by userID.
func (s *FarmService) GetSchedule(userID, farmID string) (models.Schedule, error) {
	if _, err := s.GetFarm(userID, farmID); err != nil {
		return models.Schedule{}, err
	}
	sched, err := s.store.GetScheduleByFarm(farmID)
	if err != nil {
		return models.Schedule{}, errors.Wrapf(err, "schedule of farm %s", farmID)
	}
	return sched, nil
}

// ExportScheduleICS renders the schedule of a farm as an iCalendar document.
func (s *FarmService) ExportScheduleICS(userID, farmID string) (string, error) {
	farm, err := s.GetFarm(userID, farmID)
	if err != nil {
		return "", err
	}
	sched, err := s.store.GetScheduleByFarm(farmID)
	if err != nil {
		return "", errors.Wrapf(err, "schedule of farm %s", farmID)
	}
	return calendar.BuildScheduleICS(farm, sched, s.now()), nil
}

// UpdateTaskStatus changes the status of one scheduled task. Completing a
// task raises a completion alert; reopening a task that is due soon raises
// a reminder.
func (s *FarmService) UpdateTaskStatus(userID, scheduleID, taskID, status string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	newStatus := models.TaskStatus(status)
	if !newStatus.Valid() {
		return errors.Wrapf(ErrInvalidInput, "invalid status %q; must be 'pending' or 'completed'", status)
	}

	sched, err := s.store.GetSchedule(scheduleID)
	if err != nil {
		return errors.Wrapf(err, "schedule %s", scheduleID)
	}
	farm, err := s.GetFarm(userID, sched.FarmID)
	if err != nil {
		return err
	}
	task, ok := sched.Task(taskID)
	if !ok {
		return errors.Wrapf(storage.ErrNotFound, "task %s of schedule %s", taskID, scheduleID)
	}

	err = s.inTx(func(tx storage.Store) error {
		if err := tx.UpdateTaskStatus(scheduleID, taskID, newStatus); err != nil {
			return err
		}
		switch newStatus {
		case models.CompletedTaskStatus:
			return tx.SaveAlert(s.newAlert(userID, farm.ID, models.TaskCompletedAlertType,
				fmt.Sprintf("Task completed: %s for %s", task.Title, farm.Name), s.now()))
		case models.PendingTaskStatus:
			if task.DueDate.DaysSince(s.today()) <= s.cfg.ReminderWindowDays {
				return tx.SaveAlert(s.newAlert(userID, farm.ID, models.TaskReminderAlertType,
					reminderMessage(task, farm), task.DueDate.In(time.UTC)))
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "update task %s", taskID)
	}
	s.logger.Infof("Updated task %s of schedule %s to status '%s'", taskID, scheduleID, status)
	return nil
}

func reminderMessage(task models.Task, farm models.Farm) string {
	return fmt.Sprintf("Upcoming task reminder: %s for %s due on %s", task.Title, farm.Name, task.DueDate)
}

// PendingTasks lists all pending tasks across the farms of userID.
func (s *FarmService) PendingTasks(userID string) ([]models.PendingTask, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.store.ListPendingTasks(userID)
}

func (s *FarmService) ListAlerts(userID string) ([]models.Alert, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.store.ListAlertsByUser(userID)
}

func (s *FarmService) ownedAlert(userID, alertID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	alert, err := s.store.GetAlert(alertID)
	if err != nil {
		return errors.Wrapf(err, "alert %s", alertID)
	}
	if alert.UserID != userID {
		return errors.Wrapf(ErrForbidden, "alert %s", alertID)
	}
	return nil
}

func (s *FarmService) MarkAlertRead(userID, alertID string) error {
	if err := s.ownedAlert(userID, alertID); err != nil {
		return err
	}
	return s.store.MarkAlertRead(alertID)
}

func (s *FarmService) DeleteAlert(userID, alertID string) error {
	if err := s.ownedAlert(userID, alertID); err != nil {
		return err
	}
	return s.store.DeleteAlert(alertID)
}
