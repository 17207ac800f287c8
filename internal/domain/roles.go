package domain

import "fmt"

// ClubRole is the organization-wide permission level of a profile.
type ClubRole string

const (
	ClubRoleMember     ClubRole = "member"
	ClubRoleLeader     ClubRole = "club_leader"
	ClubRoleDeputy     ClubRole = "club_deputy"
	ClubRoleSupervisor ClubRole = "club_supervisor"
)

// ClubRoles lists every valid club role.
var ClubRoles = []ClubRole{ClubRoleMember, ClubRoleLeader, ClubRoleDeputy, ClubRoleSupervisor}

// IsLeadership reports whether the role is one of the three club-leadership values.
func (r ClubRole) IsLeadership() bool {
	switch r {
	case ClubRoleLeader, ClubRoleDeputy, ClubRoleSupervisor:
		return true
	default:
		return false
	}
}

// Valid reports whether r is a known club role.
func (r ClubRole) Valid() bool {
	return r == ClubRoleMember || r.IsLeadership()
}

// ParseClubRole converts a stored value to a ClubRole.
func ParseClubRole(s string) (ClubRole, error) {
	r := ClubRole(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown club role %q", s)
	}
	return r, nil
}

// TeamRole is the permission level scoped to a single team.
type TeamRole string

const (
	TeamRoleLeader TeamRole = "leader"
	TeamRoleMember TeamRole = "member"
)

// Valid reports whether r is a known team role.
func (r TeamRole) Valid() bool {
	return r == TeamRoleLeader || r == TeamRoleMember
}

// ParseTeamRole converts a stored value to a TeamRole.
func ParseTeamRole(s string) (TeamRole, error) {
	r := TeamRole(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown team role %q", s)
	}
	return r, nil
}
