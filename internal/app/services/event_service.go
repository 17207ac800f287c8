package services

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/metrics"
	"github.com/yigit/clubhub/internal/pkg/ratelimit"
)

// EventService defines event, registration and check-in operations
type EventService interface {
	List(ctx context.Context, query dto.EventListQuery) ([]models.Event, error)
	Detail(ctx context.Context, actor *auth.Actor, id int64) (*dto.EventDetailResponse, error)
	Create(ctx context.Context, actor *auth.Actor, req *dto.CreateEventRequest) (*models.Event, error)
	Update(ctx context.Context, actor *auth.Actor, id int64, req *dto.UpdateEventRequest) (*models.Event, error)
	Delete(ctx context.Context, actor *auth.Actor, id int64) error
	RegenerateCheckInCode(ctx context.Context, actor *auth.Actor, id int64) (*dto.CheckInCodeResponse, error)
	Register(ctx context.Context, actor *auth.Actor, id int64, req *dto.RegisterForEventRequest) (*dto.RegistrationResponse, error)
	CheckIn(ctx context.Context, actor *auth.Actor, id int64, req *dto.CheckInRequest) (*dto.CheckInResponse, error)
	Participants(ctx context.Context, actor *auth.Actor, id int64) ([]models.EventParticipant, error)
	ExportParticipants(ctx context.Context, actor *auth.Actor, id int64, w io.Writer) error
	FileReport(ctx context.Context, actor *auth.Actor, id int64, req *dto.EventReportRequest) (*models.EventReport, error)
}

// CheckInConfig tunes the check-in window and attempt limiting
type CheckInConfig struct {
	GracePeriod time.Duration
	Limiter     ratelimit.AttemptLimiter
}

// eventServiceImpl implements EventService
type eventServiceImpl struct {
	eventRepo    EventRepository
	authzService *auth.AuthorizationService
	grace        time.Duration
	limiter      ratelimit.AttemptLimiter
	metrics      *metrics.Registry
	logger       zerolog.Logger
	now          func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo EventRepository,
	authzService *auth.AuthorizationService,
	checkIn CheckInConfig,
	registry *metrics.Registry,
	logger zerolog.Logger,
) EventService {
	grace := checkIn.GracePeriod
	if grace <= 0 {
		grace = domain.DefaultCheckInGrace
	}
	return &eventServiceImpl{
		eventRepo:    eventRepo,
		authzService: authzService,
		grace:        grace,
		limiter:      checkIn.Limiter,
		metrics:      registry,
		logger:       logger,
		now:          time.Now,
	}
}

// List returns events with live attendee counts. "upcoming" is the default.
func (s *eventServiceImpl) List(ctx context.Context, query dto.EventListQuery) ([]models.Event, error) {
	filter := models.EventFilter{Now: s.now()}
	switch query.When {
	case "", "upcoming":
		upcoming := true
		filter.Upcoming = &upcoming
	case "past":
		upcoming := false
		filter.Upcoming = &upcoming
	case "all":
	default:
		return nil, apperrors.NewValidationError("when", "when must be upcoming, past or all")
	}
	if c := strings.TrimSpace(query.Category); c != "" {
		filter.Category = &c
	}
	return s.eventRepo.List(ctx, filter)
}

// Detail returns an event as seen by the caller. actor may be nil for
// anonymous callers. The check-in code is only shown to club leadership.
func (s *eventServiceImpl) Detail(ctx context.Context, actor *auth.Actor, id int64) (*dto.EventDetailResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	window := domain.NewCheckInWindow(event.StartTime, event.EndTime, s.grace)
	resp := &dto.EventDetailResponse{
		Event:              *event,
		RegistrationStatus: domain.RegistrationNone,
		CheckInWindow: dto.CheckInWindowResponse{
			Opens:  window.Opens,
			Closes: window.Closes,
			State:  window.State(s.now()),
		},
	}
	if actor == nil {
		return resp, nil
	}

	reg, err := s.eventRepo.GetRegistration(ctx, id, actor.UserID)
	if err != nil {
		return nil, err
	}
	if reg != nil {
		role := reg.Role
		resp.RegistrationStatus = reg.Status
		resp.RegistrationRole = &role
		resp.Registration = reg
	}
	if actor.Scopes.ClubLeadership {
		code := event.CheckInCode
		resp.CheckInCode = &code
	}
	return resp, nil
}

// Create schedules an event with a fresh check-in code (club leadership)
func (s *eventServiceImpl) Create(ctx context.Context, actor *auth.Actor, req *dto.CreateEventRequest) (*models.Event, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeClubLeadership); err != nil {
		return nil, err
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, apperrors.NewValidationError("endTime", "endTime must be after startTime")
	}

	code, err := domain.GenerateCheckInCode()
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:         strings.TrimSpace(req.Title),
		Location:      strings.TrimSpace(req.Location),
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Category:      strings.TrimSpace(req.Category),
		MaxAttendees:  req.MaxAttendees,
		CheckInCode:   code,
		OrganizerLink: req.OrganizerLink,
		ImageURL:      req.ImageURL,
		CreatedBy:     actor.UserID,
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventID", event.ID).Str("title", event.Title).Msg("Event created")
	return event, nil
}

// Update changes the given fields of an event (club leadership). Capacity
// cannot drop below the current number of registrations.
func (s *eventServiceImpl) Update(ctx context.Context, actor *auth.Actor, id int64, req *dto.UpdateEventRequest) (*models.Event, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeClubLeadership); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = strings.TrimSpace(*req.Location)
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = *req.EndTime
	}
	if req.Category != nil {
		event.Category = strings.TrimSpace(*req.Category)
	}
	switch {
	case req.ClearMaxAttendees && req.MaxAttendees != nil:
		return nil, apperrors.NewValidationError("maxAttendees", "maxAttendees cannot be set while clearing the capacity limit")
	case req.ClearMaxAttendees:
		event.MaxAttendees = nil
	case req.MaxAttendees != nil:
		if *req.MaxAttendees < event.AttendeeCount {
			return nil, apperrors.NewValidationError("maxAttendees", "capacity cannot be lower than the current number of registrations")
		}
		event.MaxAttendees = req.MaxAttendees
	}
	if req.OrganizerLink != nil {
		event.OrganizerLink = req.OrganizerLink
	}
	if req.ImageURL != nil {
		event.ImageURL = req.ImageURL
	}
	if !event.EndTime.After(event.StartTime) {
		return nil, apperrors.NewValidationError("endTime", "endTime must be after startTime")
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes an event with its registrations (club leadership)
func (s *eventServiceImpl) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := s.authzService.RequireScope(actor, domain.ScopeClubLeadership); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("eventID", id).Str("actorID", actor.UserID.String()).Msg("Event deleted")
	return nil
}

// RegenerateCheckInCode replaces the check-in code (club leadership)
func (s *eventServiceImpl) RegenerateCheckInCode(ctx context.Context, actor *auth.Actor, id int64) (*dto.CheckInCodeResponse, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeClubLeadership); err != nil {
		return nil, err
	}

	code, err := domain.GenerateCheckInCode()
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.UpdateCheckInCode(ctx, id, code); err != nil {
		return nil, err
	}
	return &dto.CheckInCodeResponse{CheckInCode: code}, nil
}

// Register signs the caller up. Duplicate and capacity checks run under a
// row lock on the event, so two callers cannot take the last seat.
func (s *eventServiceImpl) Register(ctx context.Context, actor *auth.Actor, id int64, req *dto.RegisterForEventRequest) (*dto.RegistrationResponse, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeGeneral); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = domain.RoleAttendee
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("role", "role must be attendee or organizer")
	}

	reg, event, err := s.eventRepo.Register(ctx, id, actor.UserID, role)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAlreadyRegistered):
			s.metrics.ObserveRegistration(string(role), "duplicate")
		case errors.Is(err, apperrors.ErrEventFull):
			s.metrics.ObserveRegistration(string(role), "full")
		}
		return nil, err
	}
	s.metrics.ObserveRegistration(string(role), "registered")

	resp := &dto.RegistrationResponse{Registration: *reg}
	if role == domain.RoleOrganizer {
		resp.OrganizerLink = event.OrganizerLink
	}

	s.logger.Info().
		Int64("eventID", id).
		Str("userID", actor.UserID.String()).
		Str("role", string(role)).
		Msg("Event registration created")
	return resp, nil
}

var checkInMessages = map[domain.CheckInOutcome]string{
	domain.OutcomeCheckedIn:       "You are checked in. Enjoy the event!",
	domain.OutcomeAlreadyAttended: "You have already checked in to this event.",
	domain.OutcomeNotOpen:         "Check-in has not opened yet.",
	domain.OutcomeWindowClosed:    "Check-in for this event has closed.",
}

// CheckIn validates the venue code and marks the caller as attended. Wrong
// codes count against the attempt limiter.
func (s *eventServiceImpl) CheckIn(ctx context.Context, actor *auth.Actor, id int64, req *dto.CheckInRequest) (*dto.CheckInResponse, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeGeneral); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	window := domain.NewCheckInWindow(event.StartTime, event.EndTime, s.grace)
	key := ratelimit.CheckInKey(actor.UserID.String(), id)
	// out-of-window attempts are answered before the limiter
	if s.limiter != nil && window.State(now) == domain.WindowOpen {
		exceeded, err := s.limiter.Exceeded(ctx, key)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Attempt limiter unavailable, allowing check-in")
		} else if exceeded {
			s.metrics.ObserveCheckIn("throttled")
			return nil, apperrors.ErrTooManyAttempts
		}
	}

	reg, err := s.eventRepo.GetRegistration(ctx, id, actor.UserID)
	if err != nil {
		return nil, err
	}
	status := domain.RegistrationNone
	if reg != nil {
		status = reg.Status
	}

	outcome, err := domain.EvaluateCheckIn(domain.CheckInAttempt{
		Now:           now,
		Window:        window,
		Status:        status,
		SubmittedCode: req.Code,
		EventCode:     event.CheckInCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCheckInCode):
			s.metrics.ObserveCheckIn("invalid_code")
			s.recordFailure(ctx, key)
		case errors.Is(err, apperrors.ErrNotRegistered):
			s.metrics.ObserveCheckIn("not_registered")
		}
		return nil, err
	}

	resp := &dto.CheckInResponse{Outcome: outcome}
	switch outcome {
	case domain.OutcomeCheckedIn:
		marked, err := s.eventRepo.MarkAttended(ctx, id, actor.UserID, now)
		if err != nil {
			return nil, err
		}
		if marked {
			resp.AttendedAt = &now
			s.resetAttempts(ctx, key)
			s.logger.Info().Int64("eventID", id).Str("userID", actor.UserID.String()).Msg("Checked in")
		} else {
			// a concurrent check-in of the same registration won
			resp.Outcome = domain.OutcomeAlreadyAttended
		}
	case domain.OutcomeAlreadyAttended:
		resp.AttendedAt = reg.AttendedAt
	}

	resp.Message = checkInMessages[resp.Outcome]
	s.metrics.ObserveCheckIn(string(resp.Outcome))
	return resp, nil
}

// Participants lists registrations with attendance status (team leadership)
func (s *eventServiceImpl) Participants(ctx context.Context, actor *auth.Actor, id int64) ([]models.EventParticipant, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeTeamLeadership); err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.eventRepo.ListParticipants(ctx, id)
}

// ExportParticipants writes the participant list as CSV
func (s *eventServiceImpl) ExportParticipants(ctx context.Context, actor *auth.Actor, id int64, w io.Writer) error {
	participants, err := s.Participants(ctx, actor, id)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"full_name", "email", "student_id", "role", "status", "registered_at", "attended_at"}); err != nil {
		return err
	}
	for _, p := range participants {
		var studentID, attendedAt string
		if p.StudentID != nil {
			studentID = *p.StudentID
		}
		if p.AttendedAt != nil {
			attendedAt = p.AttendedAt.Format(time.RFC3339)
		}
		record := []string{
			p.FullName,
			p.Email,
			studentID,
			string(p.Role),
			string(p.Status),
			p.RegisteredAt.Format(time.RFC3339),
			attendedAt,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileReport stores post-event notes (club leadership)
func (s *eventServiceImpl) FileReport(ctx context.Context, actor *auth.Actor, id int64, req *dto.EventReportRequest) (*models.EventReport, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeClubLeadership); err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		return nil, apperrors.NewValidationError("notes", "notes are required")
	}
	report := &models.EventReport{
		EventID:    id,
		Notes:      notes,
		UploadedBy: actor.UserID,
	}
	if err := s.eventRepo.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *eventServiceImpl) recordFailure(ctx context.Context, key string) {
	if s.limiter == nil {
		return
	}
	if _, err := s.limiter.RecordFailure(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to record check-in attempt")
	}
}

func (s *eventServiceImpl) resetAttempts(ctx context.Context, key string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Reset(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to reset check-in attempts")
	}
}
