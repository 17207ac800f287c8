package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/clubhub/internal/domain"
)

// HourRequest is a row of 'extra_hours_requests'
type HourRequest struct {
	ID              uuid.UUID                `json:"id" db:"id"`
	RequesterID     uuid.UUID                `json:"requesterId" db:"requester_id"`
	TeamID          *uuid.UUID               `json:"teamId,omitempty" db:"team_id"`
	ActivityTitle   string                   `json:"activityTitle" db:"activity_title" example:"Booth setup"`
	TaskDescription string                   `json:"taskDescription" db:"task_description"`
	TaskType        string                   `json:"taskType" db:"task_type" example:"logistics"`
	ProofURL        *string                  `json:"proofUrl,omitempty" db:"proof_url"`
	Status          domain.HourRequestStatus `json:"status" db:"status" example:"pending"`
	AwardedHours    *float64                 `json:"awardedHours,omitempty" db:"awarded_hours" example:"4"`
	ReviewedBy      *uuid.UUID               `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedAt      *time.Time               `json:"reviewedAt,omitempty" db:"reviewed_at"`
	Notes           *string                  `json:"notes,omitempty" db:"notes"`
	Timestamps

	// Joined from profiles and teams
	RequesterName string  `json:"requesterName,omitempty"`
	TeamName      *string `json:"teamName,omitempty"`
}

// HourRequestFilter narrows review listings. A nil TeamID means every team.
type HourRequestFilter struct {
	Statuses []domain.HourRequestStatus
	TeamID   *uuid.UUID
}

// HourReview is the compare-and-set update applied to a pending request
type HourReview struct {
	RequestID    uuid.UUID
	ReviewerID   uuid.UUID
	Status       domain.HourRequestStatus
	AwardedHours *float64
	Notes        *string
	// RestrictToTeam limits the update to requests whose requester belongs to this team
	RestrictToTeam *uuid.UUID
}
