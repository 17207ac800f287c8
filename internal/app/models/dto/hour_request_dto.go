package dto

import (
	"github.com/google/uuid"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/domain"
)

// CreateHourRequestRequest is a member's self-submitted claim. It binds from
// JSON or from a multipart form carrying a "proof" file.
type CreateHourRequestRequest struct {
	ActivityTitle   string  `json:"activityTitle" form:"activityTitle" binding:"required,max=200"`
	TaskDescription string  `json:"taskDescription" form:"taskDescription" binding:"required,max=2000"`
	TaskType        string  `json:"taskType" form:"taskType" binding:"required,max=50"`
	ProofURL        *string `json:"proofUrl" form:"proofUrl" binding:"omitempty,url"`
}

// ReviewHourRequestRequest approves or rejects a pending request
type ReviewHourRequestRequest struct {
	Decision     domain.ReviewDecision `json:"decision" binding:"required,oneof=approve reject" example:"approve"`
	AwardedHours *float64              `json:"awardedHours" example:"4"`
	Notes        *string               `json:"notes" binding:"omitempty,max=1000"`
}

// ManualGrantRequest credits hours directly to a member
type ManualGrantRequest struct {
	UserID      uuid.UUID `json:"userId" binding:"required"`
	Description string    `json:"description" binding:"required,max=2000"`
	Hours       float64   `json:"hours" binding:"required,halfhours" example:"4.5"`
}

// HourReviewQuery selects the reviewer dashboard tab
type HourReviewQuery struct {
	Status string     `form:"status"`
	TeamID *uuid.UUID `form:"-"`
}

// TeamHourGroup groups archived requests by the requester's team
type TeamHourGroup struct {
	TeamID   *uuid.UUID           `json:"teamId"`
	TeamName string               `json:"teamName"`
	Requests []models.HourRequest `json:"requests"`
}

// HourReviewDashboardResponse is the reviewer's scoped list
type HourReviewDashboardResponse struct {
	View     domain.ReviewView    `json:"view" example:"team"`
	Status   string               `json:"status" example:"pending"`
	Requests []models.HourRequest `json:"requests"`
	ByTeam   []TeamHourGroup      `json:"byTeam,omitempty"`
}
