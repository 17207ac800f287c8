package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/app/services"
	"github.com/yigit/clubhub/internal/middleware"
	"github.com/yigit/clubhub/internal/pkg/helpers"
)

// HourRequestController serves extra-hours submissions and reviews
type HourRequestController struct {
	hourService services.HourRequestService
}

// NewHourRequestController creates a new HourRequestController
func NewHourRequestController(hourService services.HourRequestService) *HourRequestController {
	return &HourRequestController{hourService: hourService}
}

// Submit records a pending extra-hours request for the caller
// @Summary Submit an hour request
// @Description Accepts JSON, or a multipart form with an optional "proof" file. The request is tagged with the caller's current team.
// @Tags hour-requests
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateHourRequestRequest true "Hour request"
// @Success 201 {object} dto.APIResponse{data=models.HourRequest} "Request submitted"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Profile required"
// @Router /hour-requests [post]
func (c *HourRequestController) Submit(ctx *gin.Context) {
	var req dto.CreateHourRequestRequest
	if !bindJSONOrForm(ctx, &req) {
		return
	}
	proof, err := optionalFile(ctx, "proof")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	created, err := c.hourService.Submit(ctx.Request.Context(), middleware.GetActor(ctx), &req, proof)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created, "Request submitted"))
}

// ListMine returns the caller's own requests
// @Summary My hour requests
// @Tags hour-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.HourRequest} "Requests"
// @Router /hour-requests/mine [get]
func (c *HourRequestController) ListMine(ctx *gin.Context) {
	requests, err := c.hourService.ListMine(ctx.Request.Context(), middleware.GetActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests))
}

// Dashboard lists requests within the caller's review scope
// @Summary Review dashboard
// @Description Team leaders see their own team. Club leadership sees every team and may filter by teamId; the archived tab is grouped by team.
// @Tags hour-requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending or archived" Enums(pending, archived) default(pending)
// @Param teamId query string false "Team filter"
// @Success 200 {object} dto.APIResponse{data=dto.HourReviewDashboardResponse} "Dashboard"
// @Failure 400 {object} dto.ErrorResponse "Invalid tab or team id"
// @Failure 403 {object} dto.ErrorResponse "Reviewer scope required"
// @Router /hour-requests/review [get]
func (c *HourRequestController) Dashboard(ctx *gin.Context) {
	teamID, err := helpers.OptionalUUIDQuery(ctx, "teamId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	query := dto.HourReviewQuery{Status: ctx.Query("status"), TeamID: teamID}

	resp, err := c.hourService.Dashboard(ctx.Request.Context(), middleware.GetActor(ctx), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Review approves or rejects a pending request
// @Summary Review an hour request
// @Description Approval requires awardedHours > 0. Exactly one concurrent reviewer wins; the others get 409.
// @Tags hour-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hour request ID"
// @Param request body dto.ReviewHourRequestRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.HourRequest} "Request reviewed"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Out of scope"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Already reviewed"
// @Router /hour-requests/{id}/review [post]
func (c *HourRequestController) Review(ctx *gin.Context) {
	id, err := helpers.ParseUUIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	var req dto.ReviewHourRequestRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	reviewed, err := c.hourService.Review(ctx.Request.Context(), middleware.GetActor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(reviewed))
}

// Grant credits hours to a member directly
// @Summary Grant hours manually
// @Description Club leadership only. Creates an approved request for the member.
// @Tags hour-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ManualGrantRequest true "Grant"
// @Success 201 {object} dto.APIResponse{data=models.HourRequest} "Hours granted"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Club leadership required"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /hour-requests/grants [post]
func (c *HourRequestController) Grant(ctx *gin.Context) {
	var req dto.ManualGrantRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	granted, err := c.hourService.Grant(ctx.Request.Context(), middleware.GetActor(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(granted, "Hours granted"))
}
