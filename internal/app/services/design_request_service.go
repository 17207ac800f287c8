package services

import (
	"context"
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

// DesignRequestService defines the design ticket workflow
type DesignRequestService interface {
	Create(ctx context.Context, actor *auth.Actor, req *dto.CreateDesignRequestRequest) (*models.DesignRequest, error)
	ListMine(ctx context.Context, actor *auth.Actor) ([]models.DesignRequest, error)
	Queue(ctx context.Context, actor *auth.Actor) (*dto.DesignQueueResponse, error)
	Claim(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*models.DesignRequest, error)
	SubmitDeliverable(ctx context.Context, actor *auth.Actor, id uuid.UUID, req *dto.DesignDeliverableRequest, file *multipart.FileHeader) (*models.DesignRequest, error)
	Decide(ctx context.Context, actor *auth.Actor, id uuid.UUID, req *dto.DesignDecisionRequest) (*models.DesignRequest, error)
}

// designRequestServiceImpl implements DesignRequestService
type designRequestServiceImpl struct {
	designRepo   DesignRequestRepository
	uploads      *uploader
	authzService *auth.AuthorizationService
	notifier     Notifier
	metrics      *metrics.Registry
	logger       zerolog.Logger
}

// NewDesignRequestService creates a new DesignRequestService
func NewDesignRequestService(
	designRepo DesignRequestRepository,
	files FileUploads,
	authzService *auth.AuthorizationService,
	notifier Notifier,
	registry *metrics.Registry,
	logger zerolog.Logger,
) DesignRequestService {
	return &designRequestServiceImpl{
		designRepo:   designRepo,
		uploads:      files.uploader(logger),
		authzService: authzService,
		notifier:     notifier,
		metrics:      registry,
		logger:       logger,
	}
}

// Create opens a new, unclaimed ticket
func (s *designRequestServiceImpl) Create(ctx context.Context, actor *auth.Actor, req *dto.CreateDesignRequestRequest) (*models.DesignRequest, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeGeneral); err != nil {
		return nil, err
	}
	if req.Deadline != nil && req.Deadline.Before(time.Now()) {
		return nil, apperrors.NewValidationError("deadline", "deadline must be in the future")
	}

	request := &models.DesignRequest{
		RequesterID: actor.UserID,
		Title:       strings.TrimSpace(req.Title),
		DesignType:  strings.TrimSpace(req.DesignType),
		Description: strings.TrimSpace(req.Description),
		Deadline:    req.Deadline,
	}
	if request.Title == "" || request.DesignType == "" || request.Description == "" {
		return nil, apperrors.NewValidationError("title", "title, design type and description are required")
	}
	if err := s.designRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	request.RequesterName = actor.DisplayName()

	s.logger.Info().
		Str("requestID", request.ID.String()).
		Str("requesterID", actor.UserID.String()).
		Msg("Design request created")
	return request, nil
}

// ListMine returns the tickets the caller opened
func (s *designRequestServiceImpl) ListMine(ctx context.Context, actor *auth.Actor) ([]models.DesignRequest, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeGeneral); err != nil {
		return nil, err
	}
	return s.designRepo.ListByRequester(ctx, actor.UserID)
}

// Queue returns the reviewer view: every unclaimed ticket, the caller's
// open work and the caller's completed archive
func (s *designRequestServiceImpl) Queue(ctx context.Context, actor *auth.Actor) (*dto.DesignQueueResponse, error) {
	if err := s.requireReviewer(actor); err != nil {
		return nil, err
	}

	unclaimed, err := s.designRepo.ListByStatus(ctx, []domain.DesignStatus{domain.DesignNew}, nil)
	if err != nil {
		return nil, err
	}
	assigned, err := s.designRepo.ListByStatus(ctx,
		[]domain.DesignStatus{domain.DesignInProgress, domain.DesignRejected, domain.DesignAwaitingReview}, &actor.UserID)
	if err != nil {
		return nil, err
	}
	archive, err := s.designRepo.ListByStatus(ctx, []domain.DesignStatus{domain.DesignCompleted}, &actor.UserID)
	if err != nil {
		return nil, err
	}

	return &dto.DesignQueueResponse{
		Unclaimed: unclaimed,
		Assigned:  assigned,
		Archive:   archive,
	}, nil
}

// Claim assigns an unclaimed ticket to the caller. Only the first of two
// concurrent claims succeeds; the other gets ErrInvalidTransition.
func (s *designRequestServiceImpl) Claim(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*models.DesignRequest, error) {
	if err := s.requireReviewer(actor); err != nil {
		return nil, err
	}

	current, err := s.designRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := domain.ClaimDesign(current.Status)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, actor, models.DesignTransition{
		RequestID: id,
		From:      []domain.DesignStatus{domain.DesignNew},
		To:        next,
		AssignTo:  &actor.UserID,
	})
}

// SubmitDeliverable attaches the finished design, given as a URL or an
// uploaded file, and sends the ticket to review. Only the assignee may submit.
func (s *designRequestServiceImpl) SubmitDeliverable(ctx context.Context, actor *auth.Actor, id uuid.UUID, req *dto.DesignDeliverableRequest, file *multipart.FileHeader) (*models.DesignRequest, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeGeneral); err != nil {
		return nil, err
	}

	current, err := s.designRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	isAssignee := current.AssignedTo != nil && *current.AssignedTo == actor.UserID

	designURL := strings.TrimSpace(req.DesignURL)
	if file != nil {
		// the upload supplies the URL; validate the transition before storing it
		designURL = file.Filename
	}
	next, err := domain.SubmitDeliverable(current.Status, isAssignee, designURL)
	if err != nil {
		return nil, err
	}

	var uploaded string
	if file != nil {
		if designURL, err = s.uploads.store(ctx, file, domain.ResourceTypeDesignDeliverable, actor.UserID); err != nil {
			return nil, err
		}
		uploaded = designURL
	}

	updated, err := s.transition(ctx, actor, models.DesignTransition{
		RequestID:       id,
		From:            []domain.DesignStatus{domain.DesignInProgress, domain.DesignRejected},
		To:              next,
		RequireAssignee: &actor.UserID,
		DesignURL:       &designURL,
	})
	if err != nil {
		s.uploads.discard(ctx, uploaded)
		return nil, err
	}
	return updated, nil
}

// Decide completes or rejects a delivered design. The requester and any
// reviewer other than the assignee may decide.
func (s *designRequestServiceImpl) Decide(ctx context.Context, actor *auth.Actor, id uuid.UUID, req *dto.DesignDecisionRequest) (*models.DesignRequest, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeGeneral); err != nil {
		return nil, err
	}

	current, err := s.designRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isRequester := current.RequesterID == actor.UserID
	isAssignee := current.AssignedTo != nil && *current.AssignedTo == actor.UserID
	if !isRequester && (isAssignee || !actor.Scopes.CanReviewDesigns()) {
		return nil, apperrors.NewForbiddenError("only the requester or another reviewer can decide on this design")
	}

	notes := nonEmpty(req.FeedbackNotes)
	var feedback string
	if notes != nil {
		feedback = *notes
	}
	next, err := domain.DecideDesign(current.Status, req.Decision, feedback)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, actor, models.DesignTransition{
		RequestID:     id,
		From:          []domain.DesignStatus{domain.DesignAwaitingReview},
		To:            next,
		FeedbackNotes: notes,
	})
}

// transition applies a compare-and-set move, then re-reads the ticket
func (s *designRequestServiceImpl) transition(ctx context.Context, actor *auth.Actor, t models.DesignTransition) (*models.DesignRequest, error) {
	applied, err := s.designRepo.Transition(ctx, t)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Another actor moved the ticket between our read and the update
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidTransition, "the design request was changed by someone else, reload and try again")
	}

	updated, err := s.designRepo.GetByID(ctx, t.RequestID)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveDesignTransition(string(t.To))
	s.logger.Info().
		Str("requestID", t.RequestID.String()).
		Str("actorID", actor.UserID.String()).
		Str("status", string(t.To)).
		Msg("Design request moved")
	s.notifier.DesignRequestUpdated(ctx, updated, actor.UserID)
	return updated, nil
}

func (s *designRequestServiceImpl) requireReviewer(actor *auth.Actor) error {
	if actor == nil || !actor.Scopes.CanReviewDesigns() {
		return apperrors.NewForbiddenError("design review requires team or club leadership")
	}
	return nil
}
