package models

import "time"

// PlantNote is a farmer's note pinned to one vine of the layout grid.
type PlantNote struct {
	ID        string    `json:"id" db:"id"`
	FarmID    string    `json:"farm_id" db:"farm_id"`
	Row       int       `json:"row" db:"row_index"`
	Col       int       `json:"col" db:"col_index"`
	Title     string    `json:"title" db:"title"`
	Type      string    `json:"type" db:"type"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
