package models

import (
	"time"

	"cloud.google.com/go/civil"
)

// Schedule is the generated timeline of a farm. A farm has at most one.
type Schedule struct {
	ID           string     `json:"id"`            // UUID
	FarmID       string     `json:"farm_id"`       // Owning farm
	PlantingDate civil.Date `json:"planting_date"` // Anchor of the timeline
	EndDate      civil.Date `json:"end_date"`      // Planting date + 3 years
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"` // Last regeneration or task update
	Tasks        []Task     `json:"tasks"`      // Ordered by id
}

// Task returns the task with the given id.
func (s Schedule) Task(id string) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}
