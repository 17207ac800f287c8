package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/clubhub/internal/domain"
)

// Event is a scheduled club activity
type Event struct {
	ID            int64     `json:"id" db:"id"`
	Title         string    `json:"title" db:"title" example:"Spring Hackathon"`
	Description   string    `json:"description" db:"description"`
	Location      string    `json:"location" db:"location" example:"Main Hall"`
	StartTime     time.Time `json:"startTime" db:"start_time"`
	EndTime       time.Time `json:"endTime" db:"end_time"`
	Category      string    `json:"category" db:"category" example:"workshop"`
	MaxAttendees  *int      `json:"maxAttendees,omitempty" db:"max_attendees"`
	CheckInCode   string    `json:"-" db:"check_in_code"`
	OrganizerLink *string   `json:"organizerLink,omitempty" db:"organizer_link"`
	ImageURL      *string   `json:"imageUrl,omitempty" db:"image_url"`
	CreatedBy     uuid.UUID `json:"createdBy" db:"created_by"`
	Timestamps

	// Derived at read time by counting registration rows
	AttendeeCount int `json:"attendeeCount" db:"attendee_count"`
}

// EventFilter narrows event listings
type EventFilter struct {
	Upcoming *bool
	Category *string
	Now      time.Time
}

// EventRegistration links a profile to an event. (event_id, user_id) is unique.
type EventRegistration struct {
	ID           int64                     `json:"id" db:"id"`
	EventID      int64                     `json:"eventId" db:"event_id"`
	UserID       uuid.UUID                 `json:"userId" db:"user_id"`
	Role         domain.RegistrationRole   `json:"role" db:"role" example:"attendee"`
	Status       domain.RegistrationStatus `json:"status" db:"status" example:"registered"`
	RegisteredAt time.Time                 `json:"registeredAt" db:"registered_at"`
	AttendedAt   *time.Time                `json:"attendedAt,omitempty" db:"attended_at"`

	EventTitle string    `json:"eventTitle,omitempty"`
	StartTime  time.Time `json:"startTime,omitempty"`
	EndTime    time.Time `json:"endTime,omitempty"`
}

// EventParticipant is a registration joined with the participant's profile
type EventParticipant struct {
	UserID       uuid.UUID                 `json:"userId"`
	FullName     string                    `json:"fullName"`
	Email        string                    `json:"email"`
	StudentID    *string                   `json:"studentId,omitempty"`
	Role         domain.RegistrationRole   `json:"role"`
	Status       domain.RegistrationStatus `json:"status"`
	RegisteredAt time.Time                 `json:"registeredAt"`
	AttendedAt   *time.Time                `json:"attendedAt,omitempty"`
}

// EventReport holds post-event notes written by leadership
type EventReport struct {
	ID         int64     `json:"id" db:"id"`
	EventID    int64     `json:"eventId" db:"event_id"`
	Notes      string    `json:"notes" db:"notes"`
	UploadedBy uuid.UUID `json:"uploadedBy" db:"uploaded_by"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
