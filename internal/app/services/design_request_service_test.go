package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
)

type designScenario struct {
	*fixture
	svc DesignRequestService

	requester uuid.UUID
	designerA uuid.UUID
	designerB uuid.UUID
}

func newDesignScenario(t *testing.T) *designScenario {
	f := newFixture()
	s := &designScenario{fixture: f, svc: f.designService()}

	s.requester = f.addProfile(t, "requester", domain.ClubRoleMember)
	s.designerA = f.addProfile(t, "designer-a", domain.ClubRoleMember)
	s.designerB = f.addProfile(t, "designer-b", domain.ClubRoleDeputy)
	f.join(t, f.addTeam(t, "Design"), s.designerA, domain.TeamRoleLeader)
	return s
}

func (s *designScenario) open(t *testing.T) uuid.UUID {
	t.Helper()
	req, err := s.svc.Create(context.Background(), s.actor(t, s.requester), &dto.CreateDesignRequestRequest{
		Title:       "Hackathon poster",
		DesignType:  "poster",
		Description: "A3, club colors",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DesignNew, req.Status)
	return req.ID
}

func (s *designScenario) deliver(t *testing.T, id uuid.UUID, designer uuid.UUID) {
	t.Helper()
	_, err := s.svc.SubmitDeliverable(context.Background(), s.actor(t, designer), id,
		&dto.DesignDeliverableRequest{DesignURL: "https://files.example/poster.png"}, nil)
	require.NoError(t, err)
}

func TestDesignRequestService_CreateValidation(t *testing.T) {
	s := newDesignScenario(t)
	past := time.Now().Add(-time.Hour)

	_, err := s.svc.Create(context.Background(), s.actor(t, s.requester), &dto.CreateDesignRequestRequest{
		Title:       "Poster",
		DesignType:  "poster",
		Description: "late",
		Deadline:    &past,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDesignRequestService_FullLifecycle(t *testing.T) {
	s := newDesignScenario(t)
	ctx := context.Background()
	id := s.open(t)

	claimed, err := s.svc.Claim(ctx, s.actor(t, s.designerA), id)
	require.NoError(t, err)
	assert.Equal(t, domain.DesignInProgress, claimed.Status)
	require.NotNil(t, claimed.AssignedTo)
	assert.Equal(t, s.designerA, *claimed.AssignedTo)

	s.deliver(t, id, s.designerA)

	rejected, err := s.svc.Decide(ctx, s.actor(t, s.requester), id, &dto.DesignDecisionRequest{
		Decision:      domain.DesignDecisionReject,
		FeedbackNotes: ptr("use the new logo"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DesignRejected, rejected.Status)
	require.NotNil(t, rejected.FeedbackNotes)

	s.deliver(t, id, s.designerA)

	completed, err := s.svc.Decide(ctx, s.actor(t, s.requester), id, &dto.DesignDecisionRequest{Decision: domain.DesignDecisionComplete})
	require.NoError(t, err)
	assert.Equal(t, domain.DesignCompleted, completed.Status)

	queue, err := s.svc.Queue(ctx, s.actor(t, s.designerA))
	require.NoError(t, err)
	assert.Empty(t, queue.Unclaimed)
	assert.Empty(t, queue.Assigned)
	require.Len(t, queue.Archive, 1)

	assert.Equal(t, []string{
		"design:in_progress",
		"design:awaiting_review",
		"design:rejected",
		"design:awaiting_review",
		"design:completed",
	}, s.notifier.kinds())
}

func TestDesignRequestService_ConcurrentClaimsOneWins(t *testing.T) {
	s := newDesignScenario(t)
	id := s.open(t)
	designers := []uuid.UUID{s.designerA, s.designerB}

	var wg sync.WaitGroup
	errs := make([]error, len(designers))
	for i, designer := range designers {
		actor := s.actor(t, designer)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.svc.Claim(context.Background(), actor, id)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, won)
}

func TestDesignRequestService_Permissions(t *testing.T) {
	s := newDesignScenario(t)
	ctx := context.Background()
	id := s.open(t)

	_, err := s.svc.Claim(ctx, s.actor(t, s.requester), id)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied, "plain members cannot claim")

	_, err = s.svc.Queue(ctx, s.actor(t, s.requester))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = s.svc.Claim(ctx, s.actor(t, s.designerA), id)
	require.NoError(t, err)

	_, err = s.svc.SubmitDeliverable(ctx, s.actor(t, s.designerB), id,
		&dto.DesignDeliverableRequest{DesignURL: "https://files.example/other.png"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied, "only the assignee submits")

	_, err = s.svc.SubmitDeliverable(ctx, s.actor(t, s.designerA), id, &dto.DesignDeliverableRequest{}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed, "a deliverable is required")

	s.deliver(t, id, s.designerA)

	_, err = s.svc.Decide(ctx, s.actor(t, s.designerA), id, &dto.DesignDecisionRequest{Decision: domain.DesignDecisionComplete})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied, "the assignee cannot approve their own work")

	decided, err := s.svc.Decide(ctx, s.actor(t, s.designerB), id, &dto.DesignDecisionRequest{Decision: domain.DesignDecisionComplete})
	require.NoError(t, err)
	assert.Equal(t, domain.DesignCompleted, decided.Status)
}

func TestDesignRequestService_InvalidTransitions(t *testing.T) {
	s := newDesignScenario(t)
	ctx := context.Background()
	id := s.open(t)

	_, err := s.svc.Decide(ctx, s.actor(t, s.requester), id, &dto.DesignDecisionRequest{Decision: domain.DesignDecisionComplete})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = s.svc.Claim(ctx, s.actor(t, s.designerA), id)
	require.NoError(t, err)
	_, err = s.svc.Claim(ctx, s.actor(t, s.designerB), id)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	s.deliver(t, id, s.designerA)
	_, err = s.svc.Decide(ctx, s.actor(t, s.requester), id, &dto.DesignDecisionRequest{Decision: domain.DesignDecisionReject})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed, "rejection needs feedback")

	_, err = s.svc.Decide(ctx, s.actor(t, s.requester), id, &dto.DesignDecisionRequest{
		Decision:      domain.DesignDecisionReject,
		FeedbackNotes: ptr("Use the club colours"),
	})
	require.NoError(t, err)
	_, err = s.svc.Claim(ctx, s.actor(t, s.designerB), id)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "a rejected design is not up for grabs")
}

func TestDesignRequestService_QueueBuckets(t *testing.T) {
	s := newDesignScenario(t)
	ctx := context.Background()
	mine := s.open(t)
	s.open(t)

	_, err := s.svc.Claim(ctx, s.actor(t, s.designerA), mine)
	require.NoError(t, err)

	queueA, err := s.svc.Queue(ctx, s.actor(t, s.designerA))
	require.NoError(t, err)
	assert.Len(t, queueA.Unclaimed, 1)
	require.Len(t, queueA.Assigned, 1)
	assert.Equal(t, mine, queueA.Assigned[0].ID)

	queueB, err := s.svc.Queue(ctx, s.actor(t, s.designerB))
	require.NoError(t, err)
	assert.Len(t, queueB.Unclaimed, 1)
	assert.Empty(t, queueB.Assigned)

	own, err := s.svc.ListMine(ctx, s.actor(t, s.requester))
	require.NoError(t, err)
	assert.Len(t, own, 2)
}
