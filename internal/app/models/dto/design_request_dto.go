package dto

import (
	"time"

	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/domain"
)

// CreateDesignRequestRequest asks the design team for an artifact
type CreateDesignRequestRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	DesignType  string     `json:"designType" binding:"required,max=50" example:"poster"`
	Description string     `json:"description" binding:"required,max=4000"`
	Deadline    *time.Time `json:"deadline"`
}

// DesignDeliverableRequest submits the finished design by URL or as a
// multipart "file"
type DesignDeliverableRequest struct {
	DesignURL string `json:"designUrl" form:"designUrl" binding:"omitempty,url"`
}

// DesignDecisionRequest accepts or rejects a delivered design
type DesignDecisionRequest struct {
	Decision      domain.DesignDecision `json:"decision" binding:"required,oneof=complete reject" example:"reject"`
	FeedbackNotes *string               `json:"feedbackNotes" binding:"omitempty,max=2000"`
}

// DesignQueueResponse is the reviewer view of design requests
type DesignQueueResponse struct {
	Unclaimed []models.DesignRequest `json:"new"`
	Assigned  []models.DesignRequest `json:"assigned"`
	Archive   []models.DesignRequest `json:"archive"`
}
