package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/app/services"
	"github.com/yigit/clubhub/internal/middleware"
	"github.com/yigit/clubhub/internal/pkg/helpers"
)

// ContactController serves the public contact form and its inbox
type ContactController struct {
	contactService services.ContactService
}

// NewContactController creates a new ContactController
func NewContactController(contactService services.ContactService) *ContactController {
	return &ContactController{contactService: contactService}
}

// Submit stores a contact form message
// @Summary Send a contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Message"
// @Success 201 {object} dto.APIResponse "Message received"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Router /contact [post]
func (c *ContactController) Submit(ctx *gin.Context) {
	var req dto.ContactRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if _, err := c.contactService.Submit(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(nil, "Message received"))
}

// List returns the contact inbox
// @Summary List contact messages
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread messages"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.ContactMessageListResponse} "Messages"
// @Failure 403 {object} dto.ErrorResponse "Club leadership required"
// @Router /contact-messages [get]
func (c *ContactController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	unreadOnly := ctx.Query("unread") == "true"

	resp, err := c.contactService.List(ctx.Request.Context(), middleware.GetActor(ctx), unreadOnly, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// MarkRead flags a message as read
// @Summary Mark a contact message read
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} dto.APIResponse "Marked read"
// @Failure 403 {object} dto.ErrorResponse "Club leadership required"
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Router /contact-messages/{id}/read [post]
func (c *ContactController) MarkRead(ctx *gin.Context) {
	id, err := helpers.ParseInt64Param(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.contactService.MarkRead(ctx.Request.Context(), middleware.GetActor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Marked read"))
}
