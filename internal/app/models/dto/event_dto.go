package dto

import (
	"time"

	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/domain"
)

// CreateEventRequest represents the request to create an event
type CreateEventRequest struct {
	Title         string    `json:"title" binding:"required,max=200"`
	Description   *string   `json:"description" binding:"omitempty,max=5000"`
	Location      string    `json:"location" binding:"required,max=200"`
	StartTime     time.Time `json:"startTime" binding:"required"`
	EndTime       time.Time `json:"endTime" binding:"required,gtfield=StartTime"`
	Category      string    `json:"category" binding:"required,max=50"`
	MaxAttendees  *int      `json:"maxAttendees" binding:"omitempty,min=1"`
	OrganizerLink *string   `json:"organizerLink" binding:"omitempty,url"`
	ImageURL      *string   `json:"imageUrl" binding:"omitempty,url"`
}

// UpdateEventRequest carries the fields to change; absent fields are kept.
// ClearMaxAttendees makes the event unlimited again.
type UpdateEventRequest struct {
	Title             *string    `json:"title" binding:"omitempty,max=200"`
	Description       *string    `json:"description" binding:"omitempty,max=5000"`
	Location          *string    `json:"location" binding:"omitempty,max=200"`
	StartTime         *time.Time `json:"startTime"`
	EndTime           *time.Time `json:"endTime"`
	Category          *string    `json:"category" binding:"omitempty,max=50"`
	MaxAttendees      *int       `json:"maxAttendees" binding:"omitempty,min=1"`
	ClearMaxAttendees bool       `json:"clearMaxAttendees"`
	OrganizerLink     *string    `json:"organizerLink" binding:"omitempty,url"`
	ImageURL          *string    `json:"imageUrl" binding:"omitempty,url"`
}

// EventListQuery filters the event listing
type EventListQuery struct {
	When     string `form:"when" binding:"omitempty,oneof=upcoming past all"`
	Category string `form:"category" binding:"omitempty,max=50"`
}

// CheckInWindowResponse describes when check-in is accepted
type CheckInWindowResponse struct {
	Opens  time.Time          `json:"opens"`
	Closes time.Time          `json:"closes"`
	State  domain.WindowState `json:"state" example:"open"`
}

// EventDetailResponse is an event as seen by the caller
type EventDetailResponse struct {
	Event              models.Event              `json:"event"`
	RegistrationStatus domain.RegistrationStatus `json:"registrationStatus" example:"registered"`
	RegistrationRole   *domain.RegistrationRole  `json:"registrationRole,omitempty"`
	CheckInWindow      CheckInWindowResponse     `json:"checkInWindow"`
	CheckInCode        *string                   `json:"checkInCode,omitempty"`
	Registration       *models.EventRegistration `json:"registration,omitempty"`
}

// RegisterForEventRequest registers the caller; role defaults to attendee
type RegisterForEventRequest struct {
	Role domain.RegistrationRole `json:"role" binding:"omitempty,regrole" example:"attendee"`
}

// RegistrationResponse confirms a registration
type RegistrationResponse struct {
	Registration  models.EventRegistration `json:"registration"`
	OrganizerLink *string                  `json:"organizerLink,omitempty"`
}

// CheckInRequest submits the code shown at the venue
type CheckInRequest struct {
	Code string `json:"code" binding:"required,checkincode" example:"482913"`
}

// CheckInResponse reports the outcome of a check-in attempt
type CheckInResponse struct {
	Outcome    domain.CheckInOutcome `json:"outcome" example:"checked_in"`
	Message    string                `json:"message"`
	AttendedAt *time.Time            `json:"attendedAt,omitempty"`
}

// CheckInCodeResponse returns a freshly generated code
type CheckInCodeResponse struct {
	CheckInCode string `json:"checkInCode" example:"482913"`
}

// EventReportRequest files post-event notes
type EventReportRequest struct {
	Notes string `json:"notes" binding:"required,max=5000"`
}
