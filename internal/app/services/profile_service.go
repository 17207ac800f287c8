package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/helpers"
	"golang.org/x/sync/errgroup"
)

// ProfileService defines the interface for profile operations
type ProfileService interface {
	GetBundle(ctx context.Context, userID uuid.UUID) (*dto.ProfileBundleResponse, error)
	CreateProfile(ctx context.Context, userID uuid.UUID, req *dto.CreateProfileRequest) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.Profile, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, fileHeader *multipart.FileHeader) (*dto.AvatarResponse, error)
	ApplyForCommittee(ctx context.Context, userID uuid.UUID, req *dto.CommitteeApplicationRequest) error
	ListMembers(ctx context.Context, actor *auth.Actor, page, size int) (*dto.MemberListResponse, error)
	UpdateClubRole(ctx context.Context, actor *auth.Actor, targetID uuid.UUID, role domain.ClubRole) (*models.Profile, error)
}

// profileServiceImpl implements ProfileService
type profileServiceImpl struct {
	userRepo     UserRepository
	profileRepo  ProfileRepository
	teamRepo     TeamRepository
	eventRepo    EventRepository
	hourRepo     HourRequestRepository
	uploads      *uploader
	authzService *auth.AuthorizationService
	logger       zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	userRepo UserRepository,
	profileRepo ProfileRepository,
	teamRepo TeamRepository,
	eventRepo EventRepository,
	hourRepo HourRequestRepository,
	files FileUploads,
	authzService *auth.AuthorizationService,
	logger zerolog.Logger,
) ProfileService {
	return &profileServiceImpl{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		teamRepo:     teamRepo,
		eventRepo:    eventRepo,
		hourRepo:     hourRepo,
		uploads:      files.uploader(logger),
		authzService: authzService,
		logger:       logger,
	}
}

// GetBundle returns the profile, team, registrations, hour totals and scopes
// of a user in one response. The reads are independent and run concurrently.
func (s *profileServiceImpl) GetBundle(ctx context.Context, userID uuid.UUID) (*dto.ProfileBundleResponse, error) {
	var (
		profile       *models.Profile
		membership    *models.TeamMembership
		registrations []models.EventRegistration
		attended      []models.AttendedEvent
		approved      []float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profileRepo.GetByID(gctx, userID)
		if err != nil && !errors.Is(err, apperrors.ErrProfileNotFound) {
			return err
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		var err error
		membership, err = s.teamRepo.GetMembership(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		registrations, err = s.eventRepo.ListRegistrationsByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		if attended, err = s.eventRepo.ListAttendedEvents(gctx, userID); err != nil {
			return err
		}
		approved, err = s.hourRepo.ApprovedHours(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("userID", userID.String()).Msg("Failed to load profile bundle")
		return nil, fmt.Errorf("failed to load profile bundle: %w", err)
	}

	if profile == nil {
		return &dto.ProfileBundleResponse{HasProfile: false}, nil
	}

	spans := make([]domain.EventSpan, 0, len(attended))
	for _, e := range attended {
		spans = append(spans, domain.EventSpan{StartTime: e.StartTime, EndTime: e.EndTime})
	}
	totals := domain.ComputeHourTotals(spans, approved)

	bundle := &dto.ProfileBundleResponse{
		HasProfile:    true,
		Profile:       profile,
		Registrations: registrations,
		EventHours:    &totals.EventHours,
		ExtraHours:    &totals.ExtraHours,
		TotalHours:    &totals.TotalHours,
		Scopes:        domain.ResolveScopes(profile.ClubRole, membership.Domain()).Names(),
	}
	if membership != nil {
		bundle.Team = &dto.TeamSummary{
			ID:          membership.TeamID,
			Name:        membership.Name,
			LeaderTitle: membership.LeaderTitle,
			RoleInTeam:  membership.RoleInTeam,
		}
	}
	return bundle, nil
}

// CreateProfile completes the profile of an account that has none
func (s *profileServiceImpl) CreateProfile(ctx context.Context, userID uuid.UUID, req *dto.CreateProfileRequest) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		ID:          user.ID,
		FullName:    strings.TrimSpace(req.FullName),
		Email:       user.Email,
		StudentID:   req.StudentID,
		College:     req.College,
		Major:       req.Major,
		PhoneNumber: req.PhoneNumber,
		ClubRole:    domain.ClubRoleMember,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, apperrors.ErrProfileAlreadyExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrConflict, "profile already exists")
		}
		return nil, err
	}

	s.logger.Info().Str("userID", userID.String()).Msg("Profile created")
	return profile, nil
}

// UpdateProfile applies self-edits. Club role and team are not editable here.
func (s *profileServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	changes := models.ProfileChanges{
		FullName:    trimmed(req.FullName),
		StudentID:   req.StudentID,
		College:     req.College,
		Major:       req.Major,
		PhoneNumber: req.PhoneNumber,
	}
	if changes.FullName != nil && *changes.FullName == "" {
		return nil, apperrors.NewValidationError("fullName", "full name cannot be blank")
	}
	if changes.IsEmpty() {
		return s.profileRepo.GetByID(ctx, userID)
	}
	return s.profileRepo.Update(ctx, userID, changes)
}

// UploadAvatar stores a new avatar and replaces the previous one
func (s *profileServiceImpl) UploadAvatar(ctx context.Context, userID uuid.UUID, fileHeader *multipart.FileHeader) (*dto.AvatarResponse, error) {
	current, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.uploads.store(ctx, fileHeader, domain.ResourceTypeAvatar, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.profileRepo.UpdateAvatar(ctx, userID, url); err != nil {
		s.uploads.discard(ctx, url)
		return nil, err
	}

	if current.AvatarURL != nil {
		s.uploads.discard(ctx, *current.AvatarURL)
	}
	return &dto.AvatarResponse{AvatarURL: url}, nil
}

// ApplyForCommittee records or replaces the member's committee application
func (s *profileServiceImpl) ApplyForCommittee(ctx context.Context, userID uuid.UUID, req *dto.CommitteeApplicationRequest) error {
	app := &models.CommitteeApplication{
		UserID:     userID,
		Committee:  strings.TrimSpace(req.Committee),
		Motivation: req.Motivation,
		Experience: req.Experience,
	}
	if app.Committee == "" {
		return apperrors.NewValidationError("committee", "committee is required")
	}
	return s.profileRepo.UpsertCommitteeApplication(ctx, app)
}

// ListMembers pages through every profile (club leadership)
func (s *profileServiceImpl) ListMembers(ctx context.Context, actor *auth.Actor, page, size int) (*dto.MemberListResponse, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeClubLeadership); err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	members, total, err := s.profileRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return &dto.MemberListResponse{
		Members:        members,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// UpdateClubRole changes another member's club role (club leadership)
func (s *profileServiceImpl) UpdateClubRole(ctx context.Context, actor *auth.Actor, targetID uuid.UUID, role domain.ClubRole) (*models.Profile, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeClubLeadership); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("role", fmt.Sprintf("unknown club role %q", role))
	}
	if targetID == actor.UserID {
		return nil, apperrors.NewForbiddenError("you cannot change your own club role")
	}

	profile, err := s.profileRepo.UpdateClubRole(ctx, targetID, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("actorID", actor.UserID.String()).
		Str("targetID", targetID.String()).
		Str("role", string(role)).
		Msg("Club role changed")
	return profile, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
