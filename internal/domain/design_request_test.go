package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
)

func TestClaimDesign(t *testing.T) {
	next, err := ClaimDesign(DesignNew)
	require.NoError(t, err)
	assert.Equal(t, DesignInProgress, next)

	for _, s := range []DesignStatus{DesignInProgress, DesignAwaitingReview, DesignCompleted, DesignRejected} {
		_, err := ClaimDesign(s)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, s)
	}
}

func TestSubmitDeliverable(t *testing.T) {
	tests := []struct {
		name     string
		current  DesignStatus
		assignee bool
		url      string
		want     DesignStatus
		wantErr  error
	}{
		{"first delivery", DesignInProgress, true, "https://cdn.example/poster.png", DesignAwaitingReview, nil},
		{"resubmission after rejection", DesignRejected, true, "https://cdn.example/poster-v2.png", DesignAwaitingReview, nil},
		{"not the assignee", DesignInProgress, false, "https://cdn.example/poster.png", "", apperrors.ErrPermissionDenied},
		{"empty url", DesignInProgress, true, "   ", "", apperrors.ErrValidationFailed},
		{"unclaimed", DesignNew, true, "https://cdn.example/poster.png", "", apperrors.ErrInvalidTransition},
		{"already awaiting review", DesignAwaitingReview, true, "https://cdn.example/poster.png", "", apperrors.ErrInvalidTransition},
		{"completed", DesignCompleted, true, "https://cdn.example/poster.png", "", apperrors.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SubmitDeliverable(tt.current, tt.assignee, tt.url)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecideDesign(t *testing.T) {
	got, err := DecideDesign(DesignAwaitingReview, DesignDecisionComplete, "")
	require.NoError(t, err)
	assert.Equal(t, DesignCompleted, got)

	got, err = DecideDesign(DesignAwaitingReview, DesignDecisionReject, "colors are off")
	require.NoError(t, err)
	assert.Equal(t, DesignRejected, got)

	_, err = DecideDesign(DesignAwaitingReview, DesignDecisionReject, "")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = DecideDesign(DesignInProgress, DesignDecisionComplete, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = DecideDesign(DesignCompleted, DesignDecisionReject, "too late")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestCanTransitionDesign(t *testing.T) {
	assert.True(t, CanTransitionDesign(DesignRejected, DesignAwaitingReview))
	assert.False(t, CanTransitionDesign(DesignRejected, DesignInProgress))
	assert.False(t, CanTransitionDesign(DesignAwaitingReview, DesignInProgress))
	assert.False(t, CanTransitionDesign(DesignCompleted, DesignRejected))
	assert.False(t, CanTransitionDesign(DesignNew, DesignCompleted))
}
