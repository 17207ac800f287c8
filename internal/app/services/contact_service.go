package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/helpers"
)

// ContactService handles the public contact form
type ContactService interface {
	Submit(ctx context.Context, req *dto.ContactRequest) (*models.ContactMessage, error)
	List(ctx context.Context, actor *auth.Actor, unreadOnly bool, page, size int) (*dto.ContactMessageListResponse, error)
	MarkRead(ctx context.Context, actor *auth.Actor, id int64) error
}

// contactServiceImpl implements ContactService
type contactServiceImpl struct {
	contactRepo  ContactRepository
	authzService *auth.AuthorizationService
	logger       zerolog.Logger
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo ContactRepository, authzService *auth.AuthorizationService, logger zerolog.Logger) ContactService {
	return &contactServiceImpl{
		contactRepo:  contactRepo,
		authzService: authzService,
		logger:       logger,
	}
}

// Submit stores a message from the public contact form
func (s *contactServiceImpl) Submit(ctx context.Context, req *dto.ContactRequest) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Subject: nonEmpty(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if msg.Name == "" || msg.Message == "" {
		return nil, apperrors.NewValidationError("message", "name and message are required")
	}
	if err := s.contactRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("messageID", msg.ID).Msg("Contact message received")
	return msg, nil
}

// List pages through contact messages (club leadership)
func (s *contactServiceImpl) List(ctx context.Context, actor *auth.Actor, unreadOnly bool, page, size int) (*dto.ContactMessageListResponse, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeClubLeadership); err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	messages, total, err := s.contactRepo.List(ctx, unreadOnly, offset, limit)
	if err != nil {
		return nil, err
	}
	return &dto.ContactMessageListResponse{
		Messages:       messages,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// MarkRead flags a message as read (club leadership)
func (s *contactServiceImpl) MarkRead(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := s.authzService.RequireScope(actor, domain.ScopeClubLeadership); err != nil {
		return err
	}
	return s.contactRepo.MarkRead(ctx, id)
}
