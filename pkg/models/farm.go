package models

import "time"

// PlantSpacing is the distance in meters between vines along each axis.
type PlantSpacing struct {
	Width  float64 `json:"width" yaml:"width"`
	Length float64 `json:"length" yaml:"length"`
}

// Farm is a rectangular vineyard plot owned by a user.
type Farm struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Name         string       `json:"farm_name"`
	Length       float64      `json:"length"`
	Width        float64      `json:"width"`
	GrapeVariety string       `json:"grape_variety"`
	PlantSpacing PlantSpacing `json:"plant_spacing"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// FarmDetails bundles a farm with its schedule, computed layout and
// consultant comments, oldest first.
type FarmDetails struct {
	Farm     Farm         `json:"farm"`
	Schedule *Schedule    `json:"schedule,omitempty"`
	Layout   LayoutResult `json:"layout"`
	Comments []Comment    `json:"comments"`
}
