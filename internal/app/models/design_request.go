package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/clubhub/internal/domain"
)

// DesignRequest is a ticket asking the design team for an asset
type DesignRequest struct {
	ID            uuid.UUID           `json:"id" db:"id"`
	RequesterID   uuid.UUID           `json:"requesterId" db:"requester_id"`
	Title         string              `json:"title" db:"title" example:"Hackathon poster"`
	DesignType    string              `json:"designType" db:"design_type" example:"poster"`
	Description   string              `json:"description" db:"description"`
	Deadline      *time.Time          `json:"deadline,omitempty" db:"deadline"`
	Status        domain.DesignStatus `json:"status" db:"status" example:"new"`
	AssignedTo    *uuid.UUID          `json:"assignedTo,omitempty" db:"assigned_to"`
	DesignURL     *string             `json:"designUrl,omitempty" db:"design_url"`
	FeedbackNotes *string             `json:"feedbackNotes,omitempty" db:"feedback_notes"`
	Timestamps

	RequesterName string  `json:"requesterName,omitempty"`
	AssigneeName  *string `json:"assigneeName,omitempty"`
}

// DesignTransition is a compare-and-set status change
type DesignTransition struct {
	RequestID       uuid.UUID
	From            []domain.DesignStatus
	To              domain.DesignStatus
	AssignTo        *uuid.UUID // set on claim
	RequireAssignee *uuid.UUID
	DesignURL       *string
	FeedbackNotes   *string
}
