package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/clubhub/internal/domain"
)

// Team is a named sub-group of the club
type Team struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" example:"Media"`
	LeaderTitle *string   `json:"leaderTitle,omitempty" db:"leader_title" example:"Head of Media"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedBy   uuid.UUID `json:"createdBy" db:"created_by"`
	Timestamps

	// Related entities
	Members []TeamMember `json:"members,omitempty"`
}

// TeamMember is a row of 'team_members'. user_id is unique across the table.
type TeamMember struct {
	TeamID     uuid.UUID       `json:"teamId" db:"team_id"`
	UserID     uuid.UUID       `json:"userId" db:"user_id"`
	RoleInTeam domain.TeamRole `json:"roleInTeam" db:"role_in_team" example:"member"`
	JoinedAt   time.Time       `json:"joinedAt" db:"joined_at"`

	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
}

// TeamMembership is a profile's team as seen from the profile side
type TeamMembership struct {
	TeamID      uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	LeaderTitle *string         `json:"leaderTitle,omitempty"`
	RoleInTeam  domain.TeamRole `json:"roleInTeam"`
}

// Domain converts the membership for scope resolution
func (m *TeamMembership) Domain() *domain.Membership {
	if m == nil {
		return nil
	}
	return &domain.Membership{TeamID: m.TeamID, Role: m.RoleInTeam}
}
