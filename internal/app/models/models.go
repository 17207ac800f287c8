package models

import "time"

// Timestamps are shared by most tables
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2026-01-01T10:00:00Z"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" example:"2026-01-02T15:30:00Z"`
}
