package domain

import (
	"fmt"
	"math"

	"github.com/yigit/clubhub/internal/pkg/apperrors"
)

// HourRequestStatus is the lifecycle state of an extra-hours request.
type HourRequestStatus string

const (
	HourRequestPending  HourRequestStatus = "pending"
	HourRequestApproved HourRequestStatus = "approved"
	HourRequestRejected HourRequestStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s HourRequestStatus) Valid() bool {
	switch s {
	case HourRequestPending, HourRequestApproved, HourRequestRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the request is archival.
func (s HourRequestStatus) IsTerminal() bool {
	return s == HourRequestApproved || s == HourRequestRejected
}

// ReviewDecision is the reviewer's verdict on a pending request.
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionReject  ReviewDecision = "reject"
)

const (
	// ManualGrantTitle is the activity title recorded on leader-created grants.
	ManualGrantTitle = "Manually logged task"
	// ManualGrantTaskType is the task type recorded on leader-created grants.
	ManualGrantTaskType = "manual_grant"

	MinGrantHours = 0.5
	MaxGrantHours = 100.0
)

// ReviewOutcome is the result of applying a review decision to a pending request.
type ReviewOutcome struct {
	Status       HourRequestStatus
	AwardedHours *float64
}

// ReviewHourRequest validates a review decision against the current status and
// returns the state the request must move to. No outcome is produced for a
// request that already left pending.
func ReviewHourRequest(current HourRequestStatus, decision ReviewDecision, awardedHours *float64) (ReviewOutcome, error) {
	if current != HourRequestPending {
		return ReviewOutcome{}, apperrors.ErrAlreadyReviewed
	}

	switch decision {
	case DecisionApprove:
		if awardedHours == nil {
			return ReviewOutcome{}, apperrors.NewValidationError("awardedHours", "awarded hours are required to approve a request")
		}
		if err := validateHours("awardedHours", *awardedHours, 0, MaxGrantHours, false); err != nil {
			return ReviewOutcome{}, err
		}
		hours := *awardedHours
		return ReviewOutcome{Status: HourRequestApproved, AwardedHours: &hours}, nil
	case DecisionReject:
		return ReviewOutcome{Status: HourRequestRejected}, nil
	default:
		return ReviewOutcome{}, apperrors.NewValidationError("decision", fmt.Sprintf("unknown decision %q", decision))
	}
}

// ValidateManualGrant checks the hours of a leader-created, pre-approved grant.
func ValidateManualGrant(hours float64) error {
	return validateHours("hours", hours, MinGrantHours, MaxGrantHours, true)
}

// CheckHourInvariant verifies that a stored row obeys
// approved <=> awarded hours present and positive.
func CheckHourInvariant(status HourRequestStatus, awardedHours *float64) error {
	if status == HourRequestApproved {
		if awardedHours == nil || *awardedHours <= 0 {
			return fmt.Errorf("approved hour request without positive awarded hours")
		}
		return nil
	}
	if awardedHours != nil {
		return fmt.Errorf("%s hour request carries awarded hours", status)
	}
	return nil
}

func validateHours(field string, hours, min, max float64, minInclusive bool) error {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return apperrors.NewValidationError(field, "hours must be a finite number")
	}
	if minInclusive && hours < min {
		return apperrors.NewValidationError(field, fmt.Sprintf("hours must be at least %g", min))
	}
	if !minInclusive && hours <= min {
		return apperrors.NewValidationError(field, fmt.Sprintf("hours must be greater than %g", min))
	}
	if hours > max {
		return apperrors.NewValidationError(field, fmt.Sprintf("hours must not exceed %g", max))
	}
	return nil
}
