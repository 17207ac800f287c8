package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/metrics"
)

// Dashboard tabs
const (
	HourTabPending  = "pending"
	HourTabArchived = "archived"
)

// HourRequestService defines the extra-hours workflow
type HourRequestService interface {
	Submit(ctx context.Context, actor *auth.Actor, req *dto.CreateHourRequestRequest, proof *multipart.FileHeader) (*models.HourRequest, error)
	ListMine(ctx context.Context, actor *auth.Actor) ([]models.HourRequest, error)
	Dashboard(ctx context.Context, actor *auth.Actor, query dto.HourReviewQuery) (*dto.HourReviewDashboardResponse, error)
	Review(ctx context.Context, actor *auth.Actor, id uuid.UUID, req *dto.ReviewHourRequestRequest) (*models.HourRequest, error)
	Grant(ctx context.Context, actor *auth.Actor, req *dto.ManualGrantRequest) (*models.HourRequest, error)
}

// hourRequestServiceImpl implements HourRequestService
type hourRequestServiceImpl struct {
	hourRepo     HourRequestRepository
	profileRepo  ProfileRepository
	teamRepo     TeamRepository
	uploads      *uploader
	authzService *auth.AuthorizationService
	notifier     Notifier
	metrics      *metrics.Registry
	logger       zerolog.Logger
}

// NewHourRequestService creates a new HourRequestService
func NewHourRequestService(
	hourRepo HourRequestRepository,
	profileRepo ProfileRepository,
	teamRepo TeamRepository,
	files FileUploads,
	authzService *auth.AuthorizationService,
	notifier Notifier,
	registry *metrics.Registry,
	logger zerolog.Logger,
) HourRequestService {
	return &hourRequestServiceImpl{
		hourRepo:     hourRepo,
		profileRepo:  profileRepo,
		teamRepo:     teamRepo,
		uploads:      files.uploader(logger),
		authzService: authzService,
		notifier:     notifier,
		metrics:      registry,
		logger:       logger,
	}
}

// Submit records a pending self-submitted request. The request is tagged
// with the requester's current team; a proof file takes precedence over a
// proof URL.
func (s *hourRequestServiceImpl) Submit(ctx context.Context, actor *auth.Actor, req *dto.CreateHourRequestRequest, proof *multipart.FileHeader) (*models.HourRequest, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeGeneral); err != nil {
		return nil, err
	}

	request := &models.HourRequest{
		RequesterID:     actor.UserID,
		TeamID:          actor.TeamID(),
		ActivityTitle:   strings.TrimSpace(req.ActivityTitle),
		TaskDescription: strings.TrimSpace(req.TaskDescription),
		TaskType:        strings.TrimSpace(req.TaskType),
		ProofURL:        req.ProofURL,
		Status:          domain.HourRequestPending,
	}
	if request.ActivityTitle == "" || request.TaskDescription == "" || request.TaskType == "" {
		return nil, apperrors.NewValidationError("activityTitle", "activity title, description and task type are required")
	}

	var uploaded string
	if proof != nil {
		url, err := s.uploads.store(ctx, proof, domain.ResourceTypeHourProof, actor.UserID)
		if err != nil {
			return nil, err
		}
		uploaded = url
		request.ProofURL = &url
	}

	if err := s.hourRepo.Create(ctx, request); err != nil {
		s.uploads.discard(ctx, uploaded)
		return nil, err
	}

	request.RequesterName = actor.DisplayName()
	if actor.Membership != nil {
		name := actor.Membership.Name
		request.TeamName = &name
	}

	s.logger.Info().
		Str("requestID", request.ID.String()).
		Str("requesterID", actor.UserID.String()).
		Msg("Hour request submitted")
	s.notifier.HourRequestSubmitted(ctx, request)
	return request, nil
}

// ListMine returns the caller's own requests, newest first
func (s *hourRequestServiceImpl) ListMine(ctx context.Context, actor *auth.Actor) ([]models.HourRequest, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeGeneral); err != nil {
		return nil, err
	}
	return s.hourRepo.ListByRequester(ctx, actor.UserID)
}

// Dashboard lists requests inside the caller's review scope. Team leaders
// only see requests of their team's current members; club leadership sees
// every request and may narrow to one team.
func (s *hourRequestServiceImpl) Dashboard(ctx context.Context, actor *auth.Actor, query dto.HourReviewQuery) (*dto.HourReviewDashboardResponse, error) {
	view := domain.ReviewViewNone
	if actor != nil {
		view = actor.Scopes.ReviewView()
	}
	if view == domain.ReviewViewNone {
		return nil, apperrors.NewForbiddenError("hour request review requires team or club leadership")
	}

	tab := strings.ToLower(strings.TrimSpace(query.Status))
	if tab == "" {
		tab = HourTabPending
	}
	statuses, err := statusesForTab(tab)
	if err != nil {
		return nil, err
	}

	filter := models.HourRequestFilter{Statuses: statuses, TeamID: query.TeamID}
	if view == domain.ReviewViewTeam {
		led := actor.Scopes.LedTeamID
		if query.TeamID != nil && *query.TeamID != led {
			return nil, apperrors.NewForbiddenError("you can only review requests from your own team")
		}
		filter.TeamID = &led
	}

	requests, err := s.hourRepo.ListForReview(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.HourReviewDashboardResponse{
		View:     view,
		Status:   tab,
		Requests: requests,
	}
	if view == domain.ReviewViewClub && tab != HourTabPending {
		resp.ByTeam = groupByTeam(requests)
	}
	return resp, nil
}

// Review applies an approve/reject decision to a pending request. The update
// is a compare-and-set on the pending status (and, for team leaders, on the
// requester still being in the leader's team), so concurrent reviewers
// cannot both succeed.
func (s *hourRequestServiceImpl) Review(ctx context.Context, actor *auth.Actor, id uuid.UUID, req *dto.ReviewHourRequestRequest) (*models.HourRequest, error) {
	if actor == nil || actor.Scopes.ReviewView() == domain.ReviewViewNone {
		return nil, apperrors.NewForbiddenError("hour request review requires team or club leadership")
	}

	current, err := s.hourRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.RequesterID == actor.UserID {
		return nil, apperrors.NewForbiddenError("you cannot review your own request")
	}
	if err := s.requireScopeOver(ctx, actor, current.RequesterID); err != nil {
		return nil, err
	}

	outcome, err := domain.ReviewHourRequest(current.Status, req.Decision, req.AwardedHours)
	if err != nil {
		return nil, err
	}

	review := models.HourReview{
		RequestID:    id,
		ReviewerID:   actor.UserID,
		Status:       outcome.Status,
		AwardedHours: outcome.AwardedHours,
		Notes:        nonEmpty(req.Notes),
	}
	if actor.Scopes.ReviewView() == domain.ReviewViewTeam {
		led := actor.Scopes.LedTeamID
		review.RestrictToTeam = &led
	}

	applied, err := s.hourRepo.Review(ctx, review)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, s.explainMissedReview(ctx, id)
	}

	updated, err := s.hourRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveHourReview(string(outcome.Status))
	s.logger.Info().
		Str("requestID", id.String()).
		Str("reviewerID", actor.UserID.String()).
		Str("status", string(outcome.Status)).
		Msg("Hour request reviewed")
	s.notifier.HourRequestReviewed(ctx, updated)
	return updated, nil
}

// Grant credits hours to a member directly. The request is created already
// approved and reviewed by the caller.
func (s *hourRequestServiceImpl) Grant(ctx context.Context, actor *auth.Actor, req *dto.ManualGrantRequest) (*models.HourRequest, error) {
	if actor == nil || actor.Scopes.ReviewView() == domain.ReviewViewNone {
		return nil, apperrors.NewForbiddenError("granting hours requires team or club leadership")
	}
	if err := domain.ValidateManualGrant(req.Hours); err != nil {
		return nil, err
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, apperrors.NewValidationError("description", "description is required")
	}

	if _, err := s.profileRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	membership, err := s.teamRepo.GetMembership(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	var targetTeam *uuid.UUID
	if membership != nil {
		targetTeam = &membership.TeamID
	}
	if err := s.authzService.ValidateTeamAccess(actor, targetTeam); err != nil {
		return nil, err
	}

	hours := req.Hours
	now := time.Now()
	grant := &models.HourRequest{
		RequesterID:     req.UserID,
		TeamID:          targetTeam,
		ActivityTitle:   domain.ManualGrantTitle,
		TaskDescription: description,
		TaskType:        domain.ManualGrantTaskType,
		Status:          domain.HourRequestApproved,
		AwardedHours:    &hours,
		ReviewedBy:      &actor.UserID,
		ReviewedAt:      &now,
	}
	if err := s.hourRepo.Create(ctx, grant); err != nil {
		return nil, err
	}

	created, err := s.hourRepo.GetByID(ctx, grant.ID)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveHourGrant()
	s.logger.Info().
		Str("requestID", grant.ID.String()).
		Str("grantedBy", actor.UserID.String()).
		Str("userID", req.UserID.String()).
		Float64("hours", hours).
		Msg("Hours granted manually")
	s.notifier.HourRequestReviewed(ctx, created)
	return created, nil
}

// requireScopeOver checks the actor may act on requests of requesterID,
// judged by the requester's current team
func (s *hourRequestServiceImpl) requireScopeOver(ctx context.Context, actor *auth.Actor, requesterID uuid.UUID) error {
	if actor.Scopes.ReviewView() == domain.ReviewViewClub {
		return nil
	}
	membership, err := s.teamRepo.GetMembership(ctx, requesterID)
	if err != nil {
		return err
	}
	var team *uuid.UUID
	if membership != nil {
		team = &membership.TeamID
	}
	return s.authzService.ValidateTeamAccess(actor, team)
}

// explainMissedReview re-reads a request whose compare-and-set matched no row
func (s *hourRequestServiceImpl) explainMissedReview(ctx context.Context, id uuid.UUID) error {
	latest, err := s.hourRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if latest.Status.IsTerminal() {
		return apperrors.ErrAlreadyReviewed
	}
	return apperrors.NewForbiddenError("the member is outside your review scope")
}

func statusesForTab(tab string) ([]domain.HourRequestStatus, error) {
	switch tab {
	case HourTabPending:
		return []domain.HourRequestStatus{domain.HourRequestPending}, nil
	case HourTabArchived:
		return []domain.HourRequestStatus{domain.HourRequestApproved, domain.HourRequestRejected}, nil
	case string(domain.HourRequestApproved), string(domain.HourRequestRejected):
		return []domain.HourRequestStatus{domain.HourRequestStatus(tab)}, nil
	default:
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", tab))
	}
}

// groupByTeam groups requests by the team they were submitted under,
// keeping first-seen order. Requests without a team form one group.
func groupByTeam(requests []models.HourRequest) []dto.TeamHourGroup {
	groups := make([]dto.TeamHourGroup, 0)
	index := make(map[uuid.UUID]int)

	for _, r := range requests {
		key := uuid.Nil
		if r.TeamID != nil {
			key = *r.TeamID
		}

		i, ok := index[key]
		if !ok {
			group := dto.TeamHourGroup{TeamName: "No team"}
			if r.TeamID != nil {
				id := *r.TeamID
				group.TeamID = &id
			}
			if r.TeamName != nil {
				group.TeamName = *r.TeamName
			}
			groups = append(groups, group)
			i = len(groups) - 1
			index[key] = i
		}
		groups[i].Requests = append(groups[i].Requests, r)
	}
	return groups
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
