package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/app/services"
	"github.com/yigit/clubhub/internal/middleware"
	"github.com/yigit/clubhub/internal/pkg/helpers"
)

// ProfileController serves the caller's profile and the member directory
type ProfileController struct {
	profileService services.ProfileService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService) *ProfileController {
	return &ProfileController{profileService: profileService}
}

// GetProfile returns the caller's profile bundle
// @Summary Get my profile
// @Description Returns hasProfile=false for accounts without a profile. Otherwise returns the profile, team, registrations, event/extra/total hours and the caller's scopes.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileBundleResponse} "Profile bundle"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)

	bundle, err := c.profileService.GetBundle(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(bundle))
}

// CreateProfile completes a missing profile
// @Summary Complete my profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProfileRequest true "Profile"
// @Success 201 {object} dto.APIResponse{data=models.Profile} "Profile created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Profile already exists"
// @Router /profile [post]
func (c *ProfileController) CreateProfile(ctx *gin.Context) {
	var req dto.CreateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	userID, _ := middleware.GetUserID(ctx)

	profile, err := c.profileService.CreateProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(profile, "Profile created"))
}

// UpdateProfile edits the caller's own profile fields
// @Summary Update my profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Changed fields"
// @Success 200 {object} dto.APIResponse{data=models.Profile} "Profile updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /profile [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	userID, _ := middleware.GetUserID(ctx)

	profile, err := c.profileService.UpdateProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// UploadAvatar stores a new avatar image
// @Summary Upload my avatar
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} dto.APIResponse{data=dto.AvatarResponse} "Avatar updated"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid file"
// @Router /profile/avatar [post]
func (c *ProfileController) UploadAvatar(ctx *gin.Context) {
	fileHeader, err := requiredFile(ctx, "avatar")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	userID, _ := middleware.GetUserID(ctx)

	resp, err := c.profileService.UploadAvatar(ctx.Request.Context(), userID, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ApplyForCommittee records the caller's committee application
// @Summary Apply for a committee
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CommitteeApplicationRequest true "Application"
// @Success 200 {object} dto.APIResponse "Application received"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Profile required"
// @Router /profile/committee-application [post]
func (c *ProfileController) ApplyForCommittee(ctx *gin.Context) {
	var req dto.CommitteeApplicationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	userID, _ := middleware.GetUserID(ctx)

	if err := c.profileService.ApplyForCommittee(ctx.Request.Context(), userID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Application received"))
}

// ListMembers lists club members
// @Summary List members
// @Description Club leadership only
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.MemberListResponse} "Members"
// @Failure 403 {object} dto.ErrorResponse "Club leadership required"
// @Router /members [get]
func (c *ProfileController) ListMembers(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.profileService.ListMembers(ctx.Request.Context(), middleware.GetActor(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateClubRole changes a member's club role
// @Summary Change a member's club role
// @Description Club leadership only. Takes effect on the member's next request.
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param request body dto.UpdateClubRoleRequest true "New role"
// @Success 200 {object} dto.APIResponse{data=models.Profile} "Role updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid role"
// @Failure 403 {object} dto.ErrorResponse "Club leadership required"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /members/{id}/role [put]
func (c *ProfileController) UpdateClubRole(ctx *gin.Context) {
	targetID, err := helpers.ParseUUIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	var req dto.UpdateClubRoleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profile, err := c.profileService.UpdateClubRole(ctx.Request.Context(), middleware.GetActor(ctx), targetID, req.Role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}
