package models

import "cloud.google.com/go/civil"

type TaskStatus string

const (
	PendingTaskStatus   TaskStatus = "pending"
	CompletedTaskStatus TaskStatus = "completed"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	return s == PendingTaskStatus || s == CompletedTaskStatus
}

type TaskCategory string

const (
	PreparationCategory TaskCategory = "preparation"
	PlantingCategory    TaskCategory = "planting"
	WaterCategory       TaskCategory = "water"
	SoilCategory        TaskCategory = "soil"
	FertilizeCategory   TaskCategory = "fertilize"
	StructureCategory   TaskCategory = "structure"
	TrainingCategory    TaskCategory = "training"
	PruneCategory       TaskCategory = "prune"
	PestCategory        TaskCategory = "pest"
	MonitorCategory     TaskCategory = "monitor"
	HarvestCategory     TaskCategory = "harvest"
)

// Task is a single scheduled farming activity inside a schedule.
type Task struct {
	ID          string       `json:"id"`          // "1".."N" in generation order
	Title       string       `json:"title"`       // e.g. "Soil Testing"
	Description string       `json:"description"` // Human readable instructions
	Category    TaskCategory `json:"category"`
	StartDate   civil.Date   `json:"start_date"`
	DueDate     civil.Date   `json:"due_date"`
	Status      TaskStatus   `json:"status"` // Only field mutable after generation
}

// PendingTask is a pending task joined with the farm and schedule it belongs to.
type PendingTask struct {
	TaskID      string       `json:"task_id"`
	ScheduleID  string       `json:"schedule_id"`
	FarmID      string       `json:"farm_id"`
	FarmName    string       `json:"farm_name"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    TaskCategory `json:"category"`
	StartDate   civil.Date   `json:"start_date"`
	DueDate     civil.Date   `json:"due_date"`
}
