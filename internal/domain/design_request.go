package domain

import (
	"fmt"
	"strings"

	"github.com/yigit/clubhub/internal/pkg/apperrors"
)

// DesignStatus is the lifecycle state of a design request.
type DesignStatus string

const (
	DesignNew            DesignStatus = "new"
	DesignInProgress     DesignStatus = "in_progress"
	DesignAwaitingReview DesignStatus = "awaiting_review"
	DesignCompleted      DesignStatus = "completed"
	DesignRejected       DesignStatus = "rejected"
)

// DesignDecision is the verdict on a delivered design.
type DesignDecision string

const (
	DesignDecisionComplete DesignDecision = "complete"
	DesignDecisionReject   DesignDecision = "reject"
)

var designTransitions = map[DesignStatus][]DesignStatus{
	DesignNew:            {DesignInProgress},
	DesignInProgress:     {DesignAwaitingReview},
	DesignRejected:       {DesignAwaitingReview},
	DesignAwaitingReview: {DesignCompleted, DesignRejected},
}

// Valid reports whether s is a known status.
func (s DesignStatus) Valid() bool {
	switch s {
	case DesignNew, DesignInProgress, DesignAwaitingReview, DesignCompleted, DesignRejected:
		return true
	default:
		return false
	}
}

// CanTransitionDesign reports whether the state machine allows from -> to.
func CanTransitionDesign(from, to DesignStatus) bool {
	for _, next := range designTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ClaimDesign validates a claim. Only unclaimed requests may be claimed; a
// rejected design stays with its assignee and goes straight back to review.
func ClaimDesign(current DesignStatus) (DesignStatus, error) {
	if current != DesignNew {
		return "", invalidDesignTransition(current, DesignInProgress)
	}
	return DesignInProgress, nil
}

// SubmitDeliverable validates a deliverable submission by the assignee.
func SubmitDeliverable(current DesignStatus, isAssignee bool, designURL string) (DesignStatus, error) {
	if !isAssignee {
		return "", apperrors.NewForbiddenError("only the assignee may submit a deliverable")
	}
	if strings.TrimSpace(designURL) == "" {
		return "", apperrors.NewValidationError("designUrl", "a deliverable URL is required")
	}
	return designStep(current, DesignAwaitingReview)
}

// DecideDesign validates an accept/reject verdict on a delivered design.
func DecideDesign(current DesignStatus, decision DesignDecision, feedbackNotes string) (DesignStatus, error) {
	switch decision {
	case DesignDecisionComplete:
		return designStep(current, DesignCompleted)
	case DesignDecisionReject:
		if strings.TrimSpace(feedbackNotes) == "" {
			return "", apperrors.NewValidationError("feedbackNotes", "feedback notes are required to reject a design")
		}
		return designStep(current, DesignRejected)
	default:
		return "", apperrors.NewValidationError("decision", fmt.Sprintf("unknown decision %q", decision))
	}
}

func designStep(from, to DesignStatus) (DesignStatus, error) {
	if !CanTransitionDesign(from, to) {
		return "", invalidDesignTransition(from, to)
	}
	return to, nil
}

func invalidDesignTransition(from, to DesignStatus) error {
	return &apperrors.CustomError{
		Err:     apperrors.ErrInvalidTransition,
		Message: fmt.Sprintf("cannot move design request from %s to %s", from, to),
	}
}
