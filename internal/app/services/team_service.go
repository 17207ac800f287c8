package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
)

// TeamService defines the interface for team operations
type TeamService interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	GetTeam(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*models.Team, error)
	CreateTeam(ctx context.Context, actor *auth.Actor, req *dto.CreateTeamRequest) (*models.Team, error)
	SetMember(ctx context.Context, actor *auth.Actor, teamID, userID uuid.UUID, role domain.TeamRole) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, actor *auth.Actor, teamID, userID uuid.UUID) error
}

// teamServiceImpl implements TeamService
type teamServiceImpl struct {
	teamRepo     TeamRepository
	authzService *auth.AuthorizationService
	logger       zerolog.Logger
}

// NewTeamService creates a new TeamService
func NewTeamService(teamRepo TeamRepository, authzService *auth.AuthorizationService, logger zerolog.Logger) TeamService {
	return &teamServiceImpl{
		teamRepo:     teamRepo,
		authzService: authzService,
		logger:       logger,
	}
}

// ListTeams returns every team without members
func (s *teamServiceImpl) ListTeams(ctx context.Context) ([]models.Team, error) {
	return s.teamRepo.List(ctx)
}

// GetTeam returns a team. Members are included for club leadership and for
// the team's own leader.
func (s *teamServiceImpl) GetTeam(ctx context.Context, actor *auth.Actor, id uuid.UUID) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.authzService.CanViewTeamMembers(actor, id) {
		members, err := s.teamRepo.ListMembers(ctx, id)
		if err != nil {
			return nil, err
		}
		team.Members = members
	}
	return team, nil
}

// CreateTeam creates a team (club leadership)
func (s *teamServiceImpl) CreateTeam(ctx context.Context, actor *auth.Actor, req *dto.CreateTeamRequest) (*models.Team, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeClubLeadership); err != nil {
		return nil, err
	}

	team := &models.Team{
		Name:        strings.TrimSpace(req.Name),
		LeaderTitle: req.LeaderTitle,
		Description: req.Description,
		CreatedBy:   actor.UserID,
	}
	if team.Name == "" {
		return nil, apperrors.NewValidationError("name", "team name is required")
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	s.logger.Info().Str("teamID", team.ID.String()).Str("name", team.Name).Msg("Team created")
	return team, nil
}

// SetMember adds a profile to a team or changes its team role (club
// leadership). A profile belongs to at most one team.
func (s *teamServiceImpl) SetMember(ctx context.Context, actor *auth.Actor, teamID, userID uuid.UUID, role domain.TeamRole) (*models.TeamMember, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeClubLeadership); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("roleInTeam", fmt.Sprintf("unknown team role %q", role))
	}

	member, err := s.teamRepo.SetMember(ctx, teamID, userID, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("teamID", teamID.String()).
		Str("userID", userID.String()).
		Str("role", string(role)).
		Msg("Team membership set")
	return member, nil
}

// RemoveMember removes a profile from a team (club leadership)
func (s *teamServiceImpl) RemoveMember(ctx context.Context, actor *auth.Actor, teamID, userID uuid.UUID) error {
	if err := s.authzService.RequireScope(actor, domain.ScopeClubLeadership); err != nil {
		return err
	}
	return s.teamRepo.RemoveMember(ctx, teamID, userID)
}
