package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/email"
	"github.com/yigit/clubhub/internal/pkg/metrics"
	"github.com/yigit/clubhub/internal/pkg/websocket"
)

// NotificationService fans workflow events out to the websocket hub and,
// for decisions, to email. Delivery failures are logged and never fail the
// triggering request.
type NotificationService struct {
	publisher Publisher
	mailer    email.EmailService
	profiles  ProfileRepository
	teams     TeamRepository
	metrics   *metrics.Registry
	logger    zerolog.Logger

	// in-flight email sends
	wg sync.WaitGroup
}

// NewNotificationService creates a new NotificationService. publisher and
// mailer may be nil.
func NewNotificationService(
	publisher Publisher,
	mailer email.EmailService,
	profiles ProfileRepository,
	teams TeamRepository,
	registry *metrics.Registry,
	logger zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		publisher: publisher,
		mailer:    mailer,
		profiles:  profiles,
		teams:     teams,
		metrics:   registry,
		logger:    logger,
	}
}

// HourRequestSubmitted tells the leaders of the requester's team about a new request
func (s *NotificationService) HourRequestSubmitted(ctx context.Context, req *models.HourRequest) {
	if req.TeamID == nil {
		return
	}

	leaders, err := s.teams.LeaderIDs(ctx, *req.TeamID)
	if err != nil {
		s.logger.Warn().Err(err).Str("teamID", req.TeamID.String()).Msg("Could not load team leaders for notification")
		return
	}
	s.publish(without(leaders, req.RequesterID), websocket.TypeHourRequestSubmitted, req)
}

// HourRequestReviewed tells the requester about the decision
func (s *NotificationService) HourRequestReviewed(ctx context.Context, req *models.HourRequest) {
	s.publish([]uuid.UUID{req.RequesterID}, websocket.TypeHourRequestReviewed, req)

	if s.mailer == nil {
		return
	}
	profile, err := s.profiles.GetByID(ctx, req.RequesterID)
	if err != nil {
		s.logger.Warn().Err(err).Str("userID", req.RequesterID.String()).Msg("Could not load requester for review email")
		return
	}

	review := email.HourReviewEmail{
		ActivityTitle: req.ActivityTitle,
		Approved:      req.Status == domain.HourRequestApproved,
	}
	if req.AwardedHours != nil {
		review.AwardedHours = *req.AwardedHours
	}
	if req.Notes != nil {
		review.Notes = *req.Notes
	}

	s.sendAsync(func() error {
		return s.mailer.SendHourReviewEmail(profile.Email, profile.FullName, review)
	})
}

// DesignRequestUpdated tells the requester and the assignee that a ticket moved
func (s *NotificationService) DesignRequestUpdated(ctx context.Context, req *models.DesignRequest, actorID uuid.UUID) {
	recipients := []uuid.UUID{req.RequesterID}
	if req.AssignedTo != nil && *req.AssignedTo != req.RequesterID {
		recipients = append(recipients, *req.AssignedTo)
	}
	s.publish(without(recipients, actorID), websocket.TypeDesignRequestUpdated, req)

	if s.mailer == nil {
		return
	}

	// Claims and deliveries go to the requester, verdicts to the designer
	var to uuid.UUID
	switch req.Status {
	case domain.DesignInProgress, domain.DesignAwaitingReview:
		to = req.RequesterID
	case domain.DesignCompleted, domain.DesignRejected:
		if req.AssignedTo == nil {
			return
		}
		to = *req.AssignedTo
	default:
		return
	}
	if to == actorID {
		return
	}

	profile, err := s.profiles.GetByID(ctx, to)
	if err != nil {
		s.logger.Warn().Err(err).Str("userID", to.String()).Msg("Could not load recipient for design email")
		return
	}

	update := email.DesignUpdateEmail{Title: req.Title, Status: string(req.Status)}
	if req.FeedbackNotes != nil {
		update.FeedbackNotes = *req.FeedbackNotes
	}
	s.sendAsync(func() error {
		return s.mailer.SendDesignUpdateEmail(profile.Email, profile.FullName, update)
	})
}

// Wait blocks until pending emails are sent
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) publish(recipients []uuid.UUID, notificationType string, payload interface{}) {
	if s.publisher == nil || len(recipients) == 0 {
		return
	}
	s.publisher.Notify(recipients, notificationType, payload)
	s.metrics.ObserveNotification(notificationType)
}

func (s *NotificationService) sendAsync(send func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := send(); err != nil {
			s.logger.Warn().Err(err).Msg("Notification email failed")
		}
	}()
}

func without(ids []uuid.UUID, skip uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != skip {
			out = append(out, id)
		}
	}
	return out
}
