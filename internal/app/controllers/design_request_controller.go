package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/app/services"
	"github.com/yigit/clubhub/internal/middleware"
	"github.com/yigit/clubhub/internal/pkg/helpers"
)

// DesignRequestController serves the design request workflow
type DesignRequestController struct {
	designService services.DesignRequestService
}

// NewDesignRequestController creates a new DesignRequestController
func NewDesignRequestController(designService services.DesignRequestService) *DesignRequestController {
	return &DesignRequestController{designService: designService}
}

// Create opens a new design request
// @Summary Create a design request
// @Tags design-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDesignRequestRequest true "Design request"
// @Success 201 {object} dto.APIResponse{data=models.DesignRequest} "Request created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /design-requests [post]
func (c *DesignRequestController) Create(ctx *gin.Context) {
	var req dto.CreateDesignRequestRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	created, err := c.designService.Create(ctx.Request.Context(), middleware.GetActor(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(created, "Request created"))
}

// ListMine returns the caller's own design requests
// @Summary My design requests
// @Tags design-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.DesignRequest} "Requests"
// @Router /design-requests/mine [get]
func (c *DesignRequestController) ListMine(ctx *gin.Context) {
	requests, err := c.designService.ListMine(ctx.Request.Context(), middleware.GetActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests))
}

// Queue returns the reviewer queues
// @Summary Designer queue
// @Description The unclaimed queue, the caller's active work and the caller's archive
// @Tags design-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DesignQueueResponse} "Queues"
// @Failure 403 {object} dto.ErrorResponse "Reviewer scope required"
// @Router /design-requests [get]
func (c *DesignRequestController) Queue(ctx *gin.Context) {
	resp, err := c.designService.Queue(ctx.Request.Context(), middleware.GetActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Claim assigns a new request to the caller
// @Summary Claim a design request
// @Tags design-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Design request ID"
// @Success 200 {object} dto.APIResponse{data=models.DesignRequest} "Request claimed"
// @Failure 403 {object} dto.ErrorResponse "Reviewer scope required"
// @Failure 409 {object} dto.ErrorResponse "Already claimed"
// @Router /design-requests/{id}/claim [post]
func (c *DesignRequestController) Claim(ctx *gin.Context) {
	c.transition(ctx, func(id uuid.UUID) (interface{}, error) {
		return c.designService.Claim(ctx.Request.Context(), middleware.GetActor(ctx), id)
	})
}

// SubmitDeliverable attaches the finished design
// @Summary Submit a deliverable
// @Description Assignee only. Send designUrl as JSON or upload a "file" in a multipart form.
// @Tags design-requests
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Design request ID"
// @Param request body dto.DesignDeliverableRequest false "Deliverable link"
// @Success 200 {object} dto.APIResponse{data=models.DesignRequest} "Deliverable submitted"
// @Failure 400 {object} dto.ErrorResponse "Missing deliverable"
// @Failure 403 {object} dto.ErrorResponse "Not the assignee"
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Router /design-requests/{id}/deliverable [post]
func (c *DesignRequestController) SubmitDeliverable(ctx *gin.Context) {
	var req dto.DesignDeliverableRequest
	if !bindJSONOrForm(ctx, &req) {
		return
	}
	file, err := optionalFile(ctx, "file")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.transition(ctx, func(id uuid.UUID) (interface{}, error) {
		return c.designService.SubmitDeliverable(ctx.Request.Context(), middleware.GetActor(ctx), id, &req, file)
	})
}

// Decide completes or rejects a delivered design
// @Summary Decide on a deliverable
// @Description The requester or any reviewer. Rejection requires feedbackNotes and returns the request to the assignee.
// @Tags design-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Design request ID"
// @Param request body dto.DesignDecisionRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.DesignRequest} "Decision recorded"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to decide"
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Router /design-requests/{id}/decision [post]
func (c *DesignRequestController) Decide(ctx *gin.Context) {
	var req dto.DesignDecisionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	c.transition(ctx, func(id uuid.UUID) (interface{}, error) {
		return c.designService.Decide(ctx.Request.Context(), middleware.GetActor(ctx), id, &req)
	})
}

func (c *DesignRequestController) transition(ctx *gin.Context, apply func(id uuid.UUID) (interface{}, error)) {
	id, err := helpers.ParseUUIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := apply(id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(updated))
}
