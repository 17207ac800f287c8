package domain

import "github.com/google/uuid"

// Scope is a permission group a user may act in.
type Scope string

const (
	ScopeGeneral        Scope = "general"
	ScopeTeamLeadership Scope = "team_leadership"
	ScopeClubLeadership Scope = "club_leadership"
)

// Membership is a profile's single active team membership.
type Membership struct {
	TeamID uuid.UUID
	Role   TeamRole
}

// ReviewView selects which hour-request dashboard a user gets.
type ReviewView string

const (
	ReviewViewNone ReviewView = "none"
	ReviewViewTeam ReviewView = "team"
	ReviewViewClub ReviewView = "club"
)

// ScopeSet is the resolved set of permission groups for one user.
// It is a value computed per request and never cached across role changes.
type ScopeSet struct {
	General        bool
	TeamLeadership bool
	ClubLeadership bool

	// LedTeamID is the team the user leads, uuid.Nil when the user leads none.
	LedTeamID uuid.UUID
}

// ResolveScopes maps a club role and an optional team membership to a ScopeSet.
//
//	club role      team role   general  team_leadership  club_leadership
//	leadership     any/none    yes      yes              yes
//	member         leader      yes      yes              no
//	member         member/none yes      no               no
func ResolveScopes(role ClubRole, membership *Membership) ScopeSet {
	set := ScopeSet{General: true}

	if membership != nil && membership.Role == TeamRoleLeader {
		set.TeamLeadership = true
		set.LedTeamID = membership.TeamID
	}

	if role.IsLeadership() {
		set.TeamLeadership = true
		set.ClubLeadership = true
	}

	return set
}

// Has reports whether scope s is granted.
func (s ScopeSet) Has(scope Scope) bool {
	switch scope {
	case ScopeGeneral:
		return s.General
	case ScopeTeamLeadership:
		return s.TeamLeadership
	case ScopeClubLeadership:
		return s.ClubLeadership
	default:
		return false
	}
}

// Names lists the granted scopes in ascending order of privilege.
func (s ScopeSet) Names() []Scope {
	names := make([]Scope, 0, 3)
	for _, scope := range []Scope{ScopeGeneral, ScopeTeamLeadership, ScopeClubLeadership} {
		if s.Has(scope) {
			names = append(names, scope)
		}
	}
	return names
}

// ReviewView returns the hour-request dashboard variant for this scope set.
func (s ScopeSet) ReviewView() ReviewView {
	switch {
	case s.ClubLeadership:
		return ReviewViewClub
	case s.TeamLeadership && s.LedTeamID != uuid.Nil:
		return ReviewViewTeam
	default:
		return ReviewViewNone
	}
}

// CanActOn reports whether the holder may review requests from, or grant
// hours to, a profile whose current team is targetTeam (nil when the profile
// has no team).
func (s ScopeSet) CanActOn(targetTeam *uuid.UUID) bool {
	switch s.ReviewView() {
	case ReviewViewClub:
		return true
	case ReviewViewTeam:
		return targetTeam != nil && *targetTeam == s.LedTeamID
	default:
		return false
	}
}

// CanReviewDesigns reports whether the holder may claim and judge design requests.
func (s ScopeSet) CanReviewDesigns() bool {
	return s.TeamLeadership
}
