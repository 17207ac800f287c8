package dto

import "github.com/yigit/clubhub/internal/domain"

// CreateTeamRequest represents the request to create a team
type CreateTeamRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	LeaderTitle *string `json:"leaderTitle" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// SetTeamMemberRequest adds a member to a team or changes their team role
type SetTeamMemberRequest struct {
	RoleInTeam domain.TeamRole `json:"roleInTeam" binding:"required,teamrole" example:"member"`
}
