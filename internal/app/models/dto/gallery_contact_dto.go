package dto

import "github.com/yigit/clubhub/internal/app/models"

// ContactRequest is a message sent from the public contact form
type ContactRequest struct {
	Name    string  `json:"name" binding:"required,max=100"`
	Email   string  `json:"email" binding:"required,email,max=255"`
	Subject *string `json:"subject" binding:"omitempty,max=200"`
	Message string  `json:"message" binding:"required,max=5000"`
}

// ContactMessageListResponse is a page of contact messages
type ContactMessageListResponse struct {
	Messages       []models.ContactMessage `json:"messages"`
	PaginationInfo PaginationInfo          `json:"paginationInfo"`
}

// GalleryUploadRequest is the form accompanying a gallery image upload
type GalleryUploadRequest struct {
	Category string  `form:"category" binding:"required,max=50" example:"events"`
	AltText  *string `form:"altText" binding:"omitempty,max=300"`
}

// HealthResponse reports dependency status
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
	Redis    string `json:"redis" example:"disabled"`
}
