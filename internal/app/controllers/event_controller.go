package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/app/services"
	"github.com/yigit/clubhub/internal/middleware"
	"github.com/yigit/clubhub/internal/pkg/helpers"
)

// EventController serves events, registrations and check-in
type EventController struct {
	eventService services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService) *EventController {
	return &EventController{eventService: eventService}
}

// List returns upcoming or past events with live attendee counts
// @Summary List events
// @Tags events
// @Produce json
// @Param when query string false "upcoming, past or all" Enums(upcoming, past, all) default(upcoming)
// @Param category query string false "Category filter"
// @Success 200 {object} dto.APIResponse{data=[]models.Event} "Events"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /events [get]
func (c *EventController) List(ctx *gin.Context) {
	var query dto.EventListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	events, err := c.eventService.List(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events))
}

// Detail returns one event
// @Summary Event detail
// @Description Includes the live attendee count, the caller's registration and the check-in window state. The check-in code is only shown to club leadership.
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventDetailResponse} "Event"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) Detail(ctx *gin.Context) {
	id, err := helpers.ParseInt64Param(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	detail, err := c.eventService.Detail(ctx.Request.Context(), middleware.GetActor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(detail))
}

// Create adds an event
// @Summary Create an event
// @Description Club leadership only. A random six digit check-in code is generated.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.APIResponse{data=models.Event} "Event created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Club leadership required"
// @Router /events [post]
func (c *EventController) Create(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.Create(ctx.Request.Context(), middleware.GetActor(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event, "Event created"))
}

// Update edits an event
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.UpdateEventRequest true "Changed fields"
// @Success 200 {object} dto.APIResponse{data=models.Event} "Event updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Club leadership required"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [put]
func (c *EventController) Update(ctx *gin.Context) {
	id, err := helpers.ParseInt64Param(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	var req dto.UpdateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.Update(ctx.Request.Context(), middleware.GetActor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event))
}

// Delete removes an event
// @Summary Delete an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse "Event deleted"
// @Failure 403 {object} dto.ErrorResponse "Club leadership required"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [delete]
func (c *EventController) Delete(ctx *gin.Context) {
	id, err := helpers.ParseInt64Param(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.eventService.Delete(ctx.Request.Context(), middleware.GetActor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Event deleted"))
}

// RegenerateCheckInCode replaces the event's check-in code
// @Summary Regenerate check-in code
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.CheckInCodeResponse} "New code"
// @Failure 403 {object} dto.ErrorResponse "Club leadership required"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/check-in-code [post]
func (c *EventController) RegenerateCheckInCode(ctx *gin.Context) {
	id, err := helpers.ParseInt64Param(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.eventService.RegenerateCheckInCode(ctx.Request.Context(), middleware.GetActor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Register signs the caller up for an event
// @Summary Register for an event
// @Description Seats are checked atomically; organizers receive the organizer link.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.RegisterForEventRequest false "Registration role"
// @Success 201 {object} dto.APIResponse{data=dto.RegistrationResponse} "Registered"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered or event full"
// @Router /events/{id}/registrations [post]
func (c *EventController) Register(ctx *gin.Context) {
	id, err := helpers.ParseInt64Param(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	var req dto.RegisterForEventRequest
	if ctx.Request.ContentLength != 0 && !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.eventService.Register(ctx.Request.Context(), middleware.GetActor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Registered"))
}

// CheckIn marks the caller as attended
// @Summary Check in to an event
// @Description Outcomes: checked_in, already_attended, not_open, window_closed. Wrong codes return 422 and are rate limited per member and event.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.CheckInRequest true "Check-in code"
// @Success 200 {object} dto.APIResponse{data=dto.CheckInResponse} "Check-in outcome"
// @Failure 409 {object} dto.ErrorResponse "Not registered"
// @Failure 422 {object} dto.ErrorResponse "Invalid check-in code"
// @Failure 429 {object} dto.ErrorResponse "Too many attempts"
// @Router /events/{id}/check-in [post]
func (c *EventController) CheckIn(ctx *gin.Context) {
	id, err := helpers.ParseInt64Param(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	var req dto.CheckInRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.eventService.CheckIn(ctx.Request.Context(), middleware.GetActor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Participants lists an event's registrations
// @Summary Event participants
// @Description Team leadership. format=csv downloads a spreadsheet instead.
// @Tags events
// @Produce json,text/csv
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param format query string false "json or csv" Enums(json, csv)
// @Success 200 {object} dto.APIResponse{data=[]models.EventParticipant} "Participants"
// @Failure 403 {object} dto.ErrorResponse "Team leadership required"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/participants [get]
func (c *EventController) Participants(ctx *gin.Context) {
	id, err := helpers.ParseInt64Param(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if ctx.Query("format") == "csv" {
		var buf bytes.Buffer
		if err := c.eventService.ExportParticipants(ctx.Request.Context(), middleware.GetActor(ctx), id, &buf); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="event-%d-participants.csv"`, id))
		ctx.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
		return
	}

	participants, err := c.eventService.Participants(ctx.Request.Context(), middleware.GetActor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(participants))
}

// FileReport records a post-event report
// @Summary File an event report
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.EventReportRequest true "Report"
// @Success 201 {object} dto.APIResponse{data=models.EventReport} "Report filed"
// @Failure 403 {object} dto.ErrorResponse "Club leadership required"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/report [post]
func (c *EventController) FileReport(ctx *gin.Context) {
	id, err := helpers.ParseInt64Param(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	var req dto.EventReportRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	report, err := c.eventService.FileReport(ctx.Request.Context(), middleware.GetActor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(report, "Report filed"))
}
