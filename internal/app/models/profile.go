package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/clubhub/internal/domain"
)

// Profile is the club-facing record of a principal. Its ID equals the user ID.
type Profile struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	FullName    string          `json:"fullName" db:"full_name" example:"Ayşe Yılmaz"`
	Email       string          `json:"email" db:"email" example:"member@club.org"`
	StudentID   *string         `json:"studentId,omitempty" db:"student_id" example:"20231045"`
	College     *string         `json:"college,omitempty" db:"college"`
	Major       *string         `json:"major,omitempty" db:"major"`
	PhoneNumber *string         `json:"phoneNumber,omitempty" db:"phone_number"`
	ClubRole    domain.ClubRole `json:"clubRole" db:"club_role" example:"member"`
	AvatarURL   *string         `json:"avatarUrl,omitempty" db:"avatar_url"`
	Committee   *string         `json:"committee,omitempty" db:"committee"`
	Timestamps
}

// CommitteeApplication is a member's request to join a committee
type CommitteeApplication struct {
	UserID     uuid.UUID `json:"userId" db:"user_id"`
	Committee  string    `json:"committee" db:"committee" example:"design"`
	Motivation string    `json:"motivation" db:"motivation"`
	Experience *string   `json:"experience,omitempty" db:"experience"`
	Timestamps
}

// AttendedEvent is an attended registration joined with its event times
type AttendedEvent struct {
	EventID   int64     `json:"eventId" db:"event_id"`
	Title     string    `json:"title" db:"title"`
	StartTime time.Time `json:"startTime" db:"start_time"`
	EndTime   time.Time `json:"endTime" db:"end_time"`
}

// ProfileChanges lists the self-editable fields; nil means unchanged
type ProfileChanges struct {
	FullName    *string
	StudentID   *string
	College     *string
	Major       *string
	PhoneNumber *string
}

// IsEmpty reports whether no field is set
func (c ProfileChanges) IsEmpty() bool {
	return c.FullName == nil && c.StudentID == nil && c.College == nil && c.Major == nil && c.PhoneNumber == nil
}
