package models

import (
	"time"

	"github.com/google/uuid"
)

// GalleryImage is a categorized photo in the public gallery
type GalleryImage struct {
	ID         int64     `json:"id" db:"id"`
	ImageURL   string    `json:"imageUrl" db:"image_url"`
	AltText    *string   `json:"altText,omitempty" db:"alt_text"`
	Category   string    `json:"category" db:"category" example:"events"`
	UploadedBy uuid.UUID `json:"uploadedBy" db:"uploaded_by"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
