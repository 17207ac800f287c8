package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated principal stored in the 'users' table
type User struct {
	ID          uuid.UUID  `json:"id" db:"id" example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	Email       string     `json:"email" db:"email" example:"member@club.org"`
	Password    string     `json:"-" db:"password"` // bcrypt hash
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	Timestamps
}
