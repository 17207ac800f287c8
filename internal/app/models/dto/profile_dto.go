package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/domain"
)

// CreateProfileRequest completes a profile for an account that has none
type CreateProfileRequest struct {
	FullName    string  `json:"fullName" binding:"required,min=2,max=100"`
	StudentID   *string `json:"studentId" binding:"omitempty,max=32"`
	College     *string `json:"college" binding:"omitempty,max=100"`
	Major       *string `json:"major" binding:"omitempty,max=100"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,phone"`
}

// UpdateProfileRequest carries the self-editable profile fields
type UpdateProfileRequest struct {
	FullName    *string `json:"fullName" binding:"omitempty,min=2,max=100"`
	StudentID   *string `json:"studentId" binding:"omitempty,max=32"`
	College     *string `json:"college" binding:"omitempty,max=100"`
	Major       *string `json:"major" binding:"omitempty,max=100"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,phone"`
}

// CommitteeApplicationRequest applies for a committee
type CommitteeApplicationRequest struct {
	Committee  string  `json:"committee" binding:"required,max=100"`
	Motivation string  `json:"motivation" binding:"required,max=2000"`
	Experience *string `json:"experience" binding:"omitempty,max=2000"`
}

// UpdateClubRoleRequest changes a member's club role
type UpdateClubRoleRequest struct {
	Role domain.ClubRole `json:"role" binding:"required,clubrole" example:"club_deputy"`
}

// TeamSummary is the caller's team as shown in the profile bundle
type TeamSummary struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	LeaderTitle *string         `json:"leaderTitle,omitempty"`
	RoleInTeam  domain.TeamRole `json:"roleInTeam"`
}

// ProfileBundleResponse is everything the dashboard needs in one fetch.
// Only hasProfile is set when the account has no profile yet.
type ProfileBundleResponse struct {
	HasProfile    bool                       `json:"hasProfile"`
	Profile       *models.Profile            `json:"profile,omitempty"`
	Team          *TeamSummary               `json:"team"`
	Registrations []models.EventRegistration `json:"registrations,omitempty"`
	EventHours    *decimal.Decimal           `json:"eventHours,omitempty" swaggertype:"string" example:"3.5"`
	ExtraHours    *decimal.Decimal           `json:"extraHours,omitempty" swaggertype:"string" example:"3"`
	TotalHours    *decimal.Decimal           `json:"totalHours,omitempty" swaggertype:"string" example:"6.5"`
	Scopes        []domain.Scope             `json:"scopes,omitempty"`
}

// AvatarResponse returns the stored avatar location
type AvatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
}

// MemberListResponse is a page of member profiles
type MemberListResponse struct {
	Members        []models.Profile `json:"members"`
	PaginationInfo PaginationInfo   `json:"paginationInfo"`
}
