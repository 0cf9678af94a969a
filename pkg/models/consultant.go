package models

import "time"

// Consultant is an advisor farmers can assign to themselves. ID is the
// caller identity the consultant registered with.
type Consultant struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Phone          string    `json:"phone" db:"phone"`
	Location       string    `json:"location" db:"location"`
	Specialization string    `json:"specialization" db:"specialization"`
	Experience     int       `json:"experience" db:"experience"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ConsultantFilter narrows a consultant listing. Zero fields match everything.
type ConsultantFilter struct {
	Location       string
	Specialization string
	MinExperience  int
}

// Comment is a consultant's remark on a farm.
type Comment struct {
	ID             string    `json:"id" db:"id"`
	FarmID         string    `json:"farm_id" db:"farm_id"`
	ConsultantID   string    `json:"consultant_id" db:"consultant_id"`
	ConsultantName string    `json:"consultant_name" db:"consultant_name"`
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
