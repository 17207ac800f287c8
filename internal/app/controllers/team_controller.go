package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/app/services"
	"github.com/yigit/clubhub/internal/middleware"
	"github.com/yigit/clubhub/internal/pkg/helpers"
)

// TeamController manages teams and their memberships
type TeamController struct {
	teamService services.TeamService
}

// NewTeamController creates a new TeamController
func NewTeamController(teamService services.TeamService) *TeamController {
	return &TeamController{teamService: teamService}
}

// ListTeams lists all teams
// @Summary List teams
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Team} "Teams"
// @Router /teams [get]
func (c *TeamController) ListTeams(ctx *gin.Context) {
	teams, err := c.teamService.ListTeams(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(teams))
}

// GetTeam returns a team. Members are listed for club leadership and the
// team's own leader.
// @Summary Get a team
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} dto.APIResponse{data=models.Team} "Team"
// @Failure 404 {object} dto.ErrorResponse "Team not found"
// @Router /teams/{id} [get]
func (c *TeamController) GetTeam(ctx *gin.Context) {
	id, err := helpers.ParseUUIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	team, err := c.teamService.GetTeam(ctx.Request.Context(), middleware.GetActor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(team))
}

// CreateTeam creates a team
// @Summary Create a team
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTeamRequest true "Team"
// @Success 201 {object} dto.APIResponse{data=models.Team} "Team created"
// @Failure 403 {object} dto.ErrorResponse "Club leadership required"
// @Failure 409 {object} dto.ErrorResponse "Team name taken"
// @Router /teams [post]
func (c *TeamController) CreateTeam(ctx *gin.Context) {
	var req dto.CreateTeamRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	team, err := c.teamService.CreateTeam(ctx.Request.Context(), middleware.GetActor(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(team, "Team created"))
}

// SetMember adds a member to a team or changes their team role
// @Summary Set a team member
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param userId path string true "Member ID"
// @Param request body dto.SetTeamMemberRequest true "Team role"
// @Success 200 {object} dto.APIResponse{data=models.TeamMember} "Membership saved"
// @Failure 403 {object} dto.ErrorResponse "Club leadership required"
// @Failure 409 {object} dto.ErrorResponse "Member already belongs to another team"
// @Router /teams/{id}/members/{userId} [put]
func (c *TeamController) SetMember(ctx *gin.Context) {
	teamID, err := helpers.ParseUUIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	userID, err := helpers.ParseUUIDParam(ctx, "userId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	var req dto.SetTeamMemberRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	member, err := c.teamService.SetMember(ctx.Request.Context(), middleware.GetActor(ctx), teamID, userID, req.RoleInTeam)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(member))
}

// RemoveMember removes a member from a team
// @Summary Remove a team member
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param userId path string true "Member ID"
// @Success 200 {object} dto.APIResponse "Member removed"
// @Failure 403 {object} dto.ErrorResponse "Club leadership required"
// @Failure 404 {object} dto.ErrorResponse "Membership not found"
// @Router /teams/{id}/members/{userId} [delete]
func (c *TeamController) RemoveMember(ctx *gin.Context) {
	teamID, err := helpers.ParseUUIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	userID, err := helpers.ParseUUIDParam(ctx, "userId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.teamService.RemoveMember(ctx.Request.Context(), middleware.GetActor(ctx), teamID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Member removed"))
}
