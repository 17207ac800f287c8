package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/logger"
)

// ProfileReader loads the profile of a principal
type ProfileReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// MembershipReader loads the team of a profile; nil when it has none
type MembershipReader interface {
	GetMembership(ctx context.Context, userID uuid.UUID) (*models.TeamMembership, error)
}

// Actor is an authenticated principal with its role data resolved from the
// store for the current request
type Actor struct {
	UserID     uuid.UUID
	Profile    *models.Profile
	Membership *models.TeamMembership
	Scopes     domain.ScopeSet
}

// TeamID returns the actor's current team, nil when it has none
func (a *Actor) TeamID() *uuid.UUID {
	if a == nil || a.Membership == nil {
		return nil
	}
	id := a.Membership.TeamID
	return &id
}

// DisplayName returns the actor's profile name
func (a *Actor) DisplayName() string {
	if a == nil || a.Profile == nil {
		return ""
	}
	return a.Profile.FullName
}

// AuthorizationService resolves actors and checks scope guards. Roles are
// always read from the store; nothing is trusted from the access token.
type AuthorizationService struct {
	profiles    ProfileReader
	memberships MembershipReader
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(profiles ProfileReader, memberships MembershipReader) *AuthorizationService {
	return &AuthorizationService{
		profiles:    profiles,
		memberships: memberships,
	}
}

// ResolveActor loads the profile and team membership of userID and derives
// its scopes. ErrProfileNotFound is returned when the account has no profile.
func (s *AuthorizationService) ResolveActor(ctx context.Context, userID uuid.UUID) (*Actor, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrProfileNotFound) {
			logger.Error().Err(err).Str("userID", userID.String()).Msg("Error loading profile for actor")
		}
		return nil, err
	}

	membership, err := s.memberships.GetMembership(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error loading membership for actor")
		return nil, fmt.Errorf("failed to resolve team membership: %w", err)
	}

	return &Actor{
		UserID:     userID,
		Profile:    profile,
		Membership: membership,
		Scopes:     domain.ResolveScopes(profile.ClubRole, membership.Domain()),
	}, nil
}

// RequireScope returns a forbidden error unless the actor holds scope
func (s *AuthorizationService) RequireScope(actor *Actor, scope domain.Scope) error {
	if actor == nil || !actor.Scopes.Has(scope) {
		return apperrors.NewForbiddenError(fmt.Sprintf("this action requires the %s scope", scope))
	}
	return nil
}

// ValidateTeamAccess checks that the actor may review requests from, or grant
// hours to, a profile whose team is targetTeam
func (s *AuthorizationService) ValidateTeamAccess(actor *Actor, targetTeam *uuid.UUID) error {
	if actor == nil || !actor.Scopes.CanActOn(targetTeam) {
		return apperrors.NewForbiddenError("the member is outside your review scope")
	}
	return nil
}

// CanViewTeamMembers reports whether the actor may list the members of teamID
func (s *AuthorizationService) CanViewTeamMembers(actor *Actor, teamID uuid.UUID) bool {
	if actor == nil {
		return false
	}
	return actor.Scopes.ClubLeadership || (actor.Scopes.TeamLeadership && actor.Scopes.LedTeamID == teamID)
}
