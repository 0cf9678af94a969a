package storage

import (
	"github.com/ignatij/vineyard/pkg/models"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a farm, schedule, task, alert, note or
// consultant does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write collides with a unique key.
var ErrConflict = errors.New("already exists")

// Store defines the storage operations for vineyard.
type Store interface {
	// Transactions
	Begin() (Store, error)
	Commit() error
	Rollback() error
	Close() error

	// Farm operations
	SaveFarm(f models.Farm) error
	GetFarm(id string) (models.Farm, error)
	ListFarmsByUser(userID string) ([]models.Farm, error)
	ListFarms() ([]models.Farm, error)
	DeleteFarm(id string) error

	// Schedule operations. SaveSchedule inserts or replaces the schedule of
	// s.FarmID with all its tasks and returns the stored schedule id, which is
	// the existing one when the farm already has a schedule.
	SaveSchedule(s models.Schedule) (string, error)
	GetSchedule(id string) (models.Schedule, error)
	GetScheduleByFarm(farmID string) (models.Schedule, error)
	UpdateTaskStatus(scheduleID, taskID string, status models.TaskStatus) error
	ListPendingTasks(userID string) ([]models.PendingTask, error)

	// Alert operations
	SaveAlert(a models.Alert) error
	GetAlert(id string) (models.Alert, error)
	ListAlertsByUser(userID string) ([]models.Alert, error)
	MarkAlertRead(id string) error
	DeleteAlert(id string) error
	// SaveAlertIfAbsent atomically saves a unless its farm already has an alert
	// of the same type whose message contains text. It reports whether a was saved.
	SaveAlertIfAbsent(a models.Alert, text string) (bool, error)

	// Plant note operations. UpdateNote rewrites title, type, content and
	// updated_at only.
	SaveNote(n models.PlantNote) error
	GetNote(id string) (models.PlantNote, error)
	ListNotesByFarm(farmID string) ([]models.PlantNote, error)
	UpdateNote(n models.PlantNote) error
	DeleteNote(id string) error

	// Consultant operations. A farmer has at most one consultant;
	// AssignConsultant replaces the previous one.
	SaveConsultant(c models.Consultant) error
	GetConsultant(id string) (models.Consultant, error)
	ListConsultants(f models.ConsultantFilter) ([]models.Consultant, error)
	AssignConsultant(userID, consultantID string) error
	GetAssignedConsultant(userID string) (string, error)
	ListFarmsByConsultant(consultantID string) ([]models.Farm, error)

	// Comment operations. Listed comments carry the consultant name.
	SaveComment(c models.Comment) error
	ListCommentsByFarm(farmID string) ([]models.Comment, error)
}
