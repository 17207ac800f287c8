package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
)

func hoursPtr(h float64) *float64 { return &h }

func TestReviewHourRequest(t *testing.T) {
	tests := []struct {
		name       string
		current    HourRequestStatus
		decision   ReviewDecision
		hours      *float64
		wantStatus HourRequestStatus
		wantErr    error
	}{
		{"approve with hours", HourRequestPending, DecisionApprove, hoursPtr(4), HourRequestApproved, nil},
		{"approve without hours", HourRequestPending, DecisionApprove, nil, "", apperrors.ErrValidationFailed},
		{"approve with zero hours", HourRequestPending, DecisionApprove, hoursPtr(0), "", apperrors.ErrValidationFailed},
		{"approve with negative hours", HourRequestPending, DecisionApprove, hoursPtr(-2), "", apperrors.ErrValidationFailed},
		{"approve with NaN", HourRequestPending, DecisionApprove, hoursPtr(math.NaN()), "", apperrors.ErrValidationFailed},
		{"approve above cap", HourRequestPending, DecisionApprove, hoursPtr(101), "", apperrors.ErrValidationFailed},
		{"reject ignores hours", HourRequestPending, DecisionReject, nil, HourRequestRejected, nil},
		{"unknown decision", HourRequestPending, "maybe", nil, "", apperrors.ErrValidationFailed},
		{"already approved", HourRequestApproved, DecisionReject, nil, "", apperrors.ErrAlreadyReviewed},
		{"already rejected", HourRequestRejected, DecisionApprove, hoursPtr(2), "", apperrors.ErrAlreadyReviewed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ReviewHourRequest(tt.current, tt.decision, tt.hours)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, out.Status)
			assert.NoError(t, CheckHourInvariant(out.Status, out.AwardedHours))
		})
	}
}

func TestReviewHourRequest_CopiesHours(t *testing.T) {
	h := 3.0
	out, err := ReviewHourRequest(HourRequestPending, DecisionApprove, &h)
	require.NoError(t, err)
	h = 9
	assert.Equal(t, 3.0, *out.AwardedHours)
}

func TestValidateManualGrant(t *testing.T) {
	assert.NoError(t, ValidateManualGrant(0.5))
	assert.NoError(t, ValidateManualGrant(100))
	assert.ErrorIs(t, ValidateManualGrant(0.4), apperrors.ErrValidationFailed)
	assert.ErrorIs(t, ValidateManualGrant(100.5), apperrors.ErrValidationFailed)
}

func TestCheckHourInvariant(t *testing.T) {
	assert.NoError(t, CheckHourInvariant(HourRequestApproved, hoursPtr(1)))
	assert.NoError(t, CheckHourInvariant(HourRequestPending, nil))
	assert.NoError(t, CheckHourInvariant(HourRequestRejected, nil))

	assert.Error(t, CheckHourInvariant(HourRequestApproved, nil))
	assert.Error(t, CheckHourInvariant(HourRequestApproved, hoursPtr(0)))
	assert.Error(t, CheckHourInvariant(HourRequestPending, hoursPtr(2)))
	assert.Error(t, CheckHourInvariant(HourRequestRejected, hoursPtr(2)))
}
