package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolveScopes(t *testing.T) {
	teamA := uuid.New()

	tests := []struct {
		name       string
		role       ClubRole
		membership *Membership
		want       []Scope
		view       ReviewView
	}{
		{"plain member without team", ClubRoleMember, nil, []Scope{ScopeGeneral}, ReviewViewNone},
		{"plain team member", ClubRoleMember, &Membership{TeamID: teamA, Role: TeamRoleMember}, []Scope{ScopeGeneral}, ReviewViewNone},
		{"team leader", ClubRoleMember, &Membership{TeamID: teamA, Role: TeamRoleLeader}, []Scope{ScopeGeneral, ScopeTeamLeadership}, ReviewViewTeam},
		{"club leader", ClubRoleLeader, nil, []Scope{ScopeGeneral, ScopeTeamLeadership, ScopeClubLeadership}, ReviewViewClub},
		{"club deputy in a team", ClubRoleDeputy, &Membership{TeamID: teamA, Role: TeamRoleMember}, []Scope{ScopeGeneral, ScopeTeamLeadership, ScopeClubLeadership}, ReviewViewClub},
		{"supervisor leading a team", ClubRoleSupervisor, &Membership{TeamID: teamA, Role: TeamRoleLeader}, []Scope{ScopeGeneral, ScopeTeamLeadership, ScopeClubLeadership}, ReviewViewClub},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := ResolveScopes(tt.role, tt.membership)
			assert.Equal(t, tt.want, set.Names())
			assert.Equal(t, tt.view, set.ReviewView())
		})
	}
}

func TestScopeSet_CanActOn(t *testing.T) {
	teamA, teamB := uuid.New(), uuid.New()

	leaderA := ResolveScopes(ClubRoleMember, &Membership{TeamID: teamA, Role: TeamRoleLeader})
	assert.True(t, leaderA.CanActOn(&teamA))
	assert.False(t, leaderA.CanActOn(&teamB))
	assert.False(t, leaderA.CanActOn(nil))

	club := ResolveScopes(ClubRoleLeader, nil)
	assert.True(t, club.CanActOn(&teamA))
	assert.True(t, club.CanActOn(&teamB))
	assert.True(t, club.CanActOn(nil))

	member := ResolveScopes(ClubRoleMember, &Membership{TeamID: teamA, Role: TeamRoleMember})
	assert.False(t, member.CanActOn(&teamA))
}

func TestScopeSet_CanReviewDesigns(t *testing.T) {
	assert.False(t, ResolveScopes(ClubRoleMember, nil).CanReviewDesigns())
	assert.True(t, ResolveScopes(ClubRoleMember, &Membership{TeamID: uuid.New(), Role: TeamRoleLeader}).CanReviewDesigns())
	assert.True(t, ResolveScopes(ClubRoleSupervisor, nil).CanReviewDesigns())
}

func TestParseClubRole(t *testing.T) {
	for _, r := range ClubRoles {
		got, err := ParseClubRole(string(r))
		assert.NoError(t, err)
		assert.Equal(t, r, got)
	}
	_, err := ParseClubRole("president")
	assert.Error(t, err)

	_, err = ParseTeamRole("captain")
	assert.Error(t, err)
}
