package models

import "time"

type AlertType string

const (
	TaskAlertType          AlertType = "task"
	TaskCompletedAlertType AlertType = "task_completed"
	TaskReminderAlertType  AlertType = "task_reminder"
)

// Alert is a notification shown to a farmer.
type Alert struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	FarmID    *string   `json:"farm_id,omitempty" db:"farm_id"` // Nullable
	Message   string    `json:"message" db:"message"`
	Type      AlertType `json:"type" db:"type"`
	Date      time.Time `json:"date" db:"date"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
