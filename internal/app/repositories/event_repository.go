package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/db"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/dberrors"
	"github.com/yigit/clubhub/internal/pkg/logger"
)

var eventColumns = []string{
	"e.id", "e.title", "e.description", "e.location", "e.start_time", "e.end_time", "e.category",
	"e.max_attendees", "e.check_in_code", "e.organizer_link", "e.image_url", "e.created_by",
	"e.created_at", "e.updated_at",
}

const attendeeCountColumn = "(SELECT COUNT(*) FROM event_registrations er WHERE er.event_id = e.id) AS attendee_count"

var registrationColumns = []string{"r.id", "r.event_id", "r.user_id", "r.role", "r.status", "r.registered_at", "r.attended_at"}

// EventRepository handles events, registrations and reports
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanEvent(row rowScanner, withCount bool) (*models.Event, error) {
	var (
		e         models.Event
		createdBy *uuid.UUID
	)
	dest := []interface{}{
		&e.ID, &e.Title, &e.Description, &e.Location, &e.StartTime, &e.EndTime, &e.Category,
		&e.MaxAttendees, &e.CheckInCode, &e.OrganizerLink, &e.ImageURL, &createdBy,
		&e.CreatedAt, &e.UpdatedAt,
	}
	if withCount {
		dest = append(dest, &e.AttendeeCount)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if createdBy != nil {
		e.CreatedBy = *createdBy
	}
	return &e, nil
}

func scanRegistration(row rowScanner) (*models.EventRegistration, error) {
	var reg models.EventRegistration
	if err := row.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Role, &reg.Status, &reg.RegisteredAt, &reg.AttendedAt); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *EventRepository) selectEvents() squirrel.SelectBuilder {
	return r.sb.Select(append(append([]string{}, eventColumns...), attendeeCountColumn)...).From("events e")
}

// Create inserts an event
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	sql, args, err := r.sb.Insert("events").
		Columns("title", "description", "location", "start_time", "end_time", "category",
			"max_attendees", "check_in_code", "organizer_link", "image_url", "created_by").
		Values(event.Title, event.Description, event.Location, event.StartTime, event.EndTime, event.Category,
			event.MaxAttendees, event.CheckInCode, event.OrganizerLink, event.ImageURL, event.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt); err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.NewValidationError("endTime", "endTime must be after startTime")
		}
		logger.Error().Err(err).Str("title", event.Title).Msg("Error creating event")
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// GetByID returns an event with its live registration count
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := r.selectEvents().Where(squirrel.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	event, err := scanEvent(r.db.QueryRow(ctx, sql, args...), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Int64("eventID", id).Msg("Error scanning event row")
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	return event, nil
}

// List returns events matching filter. Upcoming events come soonest first,
// past events most recent first.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	q := r.selectEvents()
	now := filter.Now
	if now.IsZero() {
		now = time.Now()
	}

	switch {
	case filter.Upcoming != nil && *filter.Upcoming:
		q = q.Where(squirrel.Gt{"e.start_time": now}).OrderBy("e.start_time ASC")
	case filter.Upcoming != nil:
		q = q.Where(squirrel.LtOrEq{"e.start_time": now}).OrderBy("e.start_time DESC")
	default:
		q = q.OrderBy("e.start_time DESC")
	}
	if filter.Category != nil {
		q = q.Where(squirrel.Eq{"e.category": *filter.Category})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing events")
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows, true)
		if err != nil {
			return nil, fmt.Errorf("error scanning event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// Update overwrites the editable fields of an event
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	sql, args, err := r.sb.Update("events").
		SetMap(map[string]interface{}{
			"title":          event.Title,
			"description":    event.Description,
			"location":       event.Location,
			"start_time":     event.StartTime,
			"end_time":       event.EndTime,
			"category":       event.Category,
			"max_attendees":  event.MaxAttendees,
			"organizer_link": event.OrganizerLink,
			"image_url":      event.ImageURL,
			"updated_at":     time.Now(),
		}).
		Where(squirrel.Eq{"id": event.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&event.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return apperrors.ErrEventNotFound
		case dberrors.IsCheckViolation(err):
			return apperrors.NewValidationError("endTime", "endTime must be after startTime")
		}
		logger.Error().Err(err).Int64("eventID", event.ID).Msg("Error updating event")
		return fmt.Errorf("error updating event: %w", err)
	}
	return nil
}

// UpdateCheckInCode replaces the event's check-in code
func (r *EventRepository) UpdateCheckInCode(ctx context.Context, id int64, code string) error {
	sql, args, err := r.sb.Update("events").
		Set("check_in_code", code).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update check-in code query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", id).Msg("Error updating check-in code")
		return fmt.Errorf("error updating check-in code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// Delete removes an event together with its registrations and reports
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("events").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete event query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", id).Msg("Error deleting event")
		return fmt.Errorf("error deleting event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// Register creates a registration. The event row is locked for the duration
// of the transaction so the duplicate check, the capacity check and the
// insert are serialized per event. The (event_id, user_id) unique key backs
// the duplicate check.
func (r *EventRepository) Register(ctx context.Context, eventID int64, userID uuid.UUID, role domain.RegistrationRole) (*models.EventRegistration, *models.Event, error) {
	lockSQL, lockArgs, err := r.sb.Select(eventColumns...).
		From("events e").
		Where(squirrel.Eq{"e.id": eventID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build lock event query: %w", err)
	}

	existsSQL, existsArgs, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("event_registrations").
		Where(squirrel.Eq{"event_id": eventID, "user_id": userID}).
		Suffix(")").
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build registration exists query: %w", err)
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("event_registrations").
		Where(squirrel.Eq{"event_id": eventID}).
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build registration count query: %w", err)
	}

	insertSQL, insertArgs, err := r.sb.Insert("event_registrations").
		Columns("event_id", "user_id", "role", "status", "registered_at").
		Values(eventID, userID, role, domain.RegistrationRegistered, time.Now()).
		Suffix("RETURNING id, event_id, user_id, role, status, registered_at, attended_at").
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build create registration query: %w", err)
	}

	var (
		event *models.Event
		reg   *models.EventRegistration
	)
	err = db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		event, err = scanEvent(tx.QueryRow(ctx, lockSQL, lockArgs...), false)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrEventNotFound
			}
			return fmt.Errorf("error locking event: %w", err)
		}

		var exists bool
		if err := tx.QueryRow(ctx, existsSQL, existsArgs...).Scan(&exists); err != nil {
			return fmt.Errorf("error checking registration: %w", err)
		}
		if exists {
			return apperrors.ErrAlreadyRegistered
		}

		if err := tx.QueryRow(ctx, countSQL, countArgs...).Scan(&event.AttendeeCount); err != nil {
			return fmt.Errorf("error counting registrations: %w", err)
		}
		if !domain.HasCapacity(event.MaxAttendees, event.AttendeeCount) {
			return apperrors.ErrEventFull
		}

		reg, err = scanRegistration(tx.QueryRow(ctx, insertSQL, insertArgs...))
		if err != nil {
			switch {
			case dberrors.IsDuplicateConstraintError(err, "event_registrations_event_user_key"):
				return apperrors.ErrAlreadyRegistered
			case dberrors.IsForeignKeyViolation(err):
				return apperrors.ErrProfileNotFound
			}
			return fmt.Errorf("error creating registration: %w", err)
		}
		event.AttendeeCount++
		return nil
	})
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrAlreadyRegistered, apperrors.ErrEventFull, apperrors.ErrEventNotFound, apperrors.ErrProfileNotFound) {
			logger.Error().Err(err).Int64("eventID", eventID).Str("userID", userID.String()).Msg("Error registering for event")
		}
		return nil, nil, err
	}

	reg.EventTitle = event.Title
	reg.StartTime = event.StartTime
	reg.EndTime = event.EndTime
	return reg, event, nil
}

// GetRegistration returns the caller's registration for an event, or nil
func (r *EventRepository) GetRegistration(ctx context.Context, eventID int64, userID uuid.UUID) (*models.EventRegistration, error) {
	sql, args, err := r.sb.Select(registrationColumns...).
		From("event_registrations r").
		Where(squirrel.Eq{"r.event_id": eventID, "r.user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get registration query: %w", err)
	}

	reg, err := scanRegistration(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Int64("eventID", eventID).Msg("Error scanning registration row")
		return nil, fmt.Errorf("error retrieving registration: %w", err)
	}
	return reg, nil
}

// MarkAttended moves a registration from registered to attended. It reports
// false when no registered row matched, for example after a concurrent check-in.
func (r *EventRepository) MarkAttended(ctx context.Context, eventID int64, userID uuid.UUID, at time.Time) (bool, error) {
	sql, args, err := r.sb.Update("event_registrations").
		Set("status", domain.RegistrationAttended).
		Set("attended_at", at).
		Where(squirrel.Eq{"event_id": eventID, "user_id": userID, "status": domain.RegistrationRegistered}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build mark attended query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", eventID).Str("userID", userID.String()).Msg("Error marking attendance")
		return false, fmt.Errorf("error marking attendance: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListRegistrationsByUser returns a user's registrations with event details, latest event first
func (r *EventRepository) ListRegistrationsByUser(ctx context.Context, userID uuid.UUID) ([]models.EventRegistration, error) {
	sql, args, err := r.sb.Select(append(append([]string{}, registrationColumns...), "e.title", "e.start_time", "e.end_time")...).
		From("event_registrations r").
		Join("events e ON e.id = r.event_id").
		Where(squirrel.Eq{"r.user_id": userID}).
		OrderBy("e.start_time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list registrations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error listing registrations")
		return nil, fmt.Errorf("error listing registrations: %w", err)
	}
	defer rows.Close()

	regs := make([]models.EventRegistration, 0)
	for rows.Next() {
		var reg models.EventRegistration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Role, &reg.Status, &reg.RegisteredAt, &reg.AttendedAt,
			&reg.EventTitle, &reg.StartTime, &reg.EndTime); err != nil {
			return nil, fmt.Errorf("error scanning registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// ListAttendedEvents returns the events a user attended, for hour aggregation
func (r *EventRepository) ListAttendedEvents(ctx context.Context, userID uuid.UUID) ([]models.AttendedEvent, error) {
	sql, args, err := r.sb.Select("e.id", "e.title", "e.start_time", "e.end_time").
		From("event_registrations r").
		Join("events e ON e.id = r.event_id").
		Where(squirrel.Eq{"r.user_id": userID, "r.status": domain.RegistrationAttended}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attended events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error listing attended events")
		return nil, fmt.Errorf("error listing attended events: %w", err)
	}
	defer rows.Close()

	attended := make([]models.AttendedEvent, 0)
	for rows.Next() {
		var a models.AttendedEvent
		if err := rows.Scan(&a.EventID, &a.Title, &a.StartTime, &a.EndTime); err != nil {
			return nil, fmt.Errorf("error scanning attended event: %w", err)
		}
		attended = append(attended, a)
	}
	return attended, rows.Err()
}

// ListParticipants returns the registrations of an event joined with profiles
func (r *EventRepository) ListParticipants(ctx context.Context, eventID int64) ([]models.EventParticipant, error) {
	sql, args, err := r.sb.Select("p.id", "p.full_name", "p.email", "p.student_id", "r.role", "r.status", "r.registered_at", "r.attended_at").
		From("event_registrations r").
		Join("profiles p ON p.id = r.user_id").
		Where(squirrel.Eq{"r.event_id": eventID}).
		OrderBy("r.registered_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build participants query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", eventID).Msg("Error listing participants")
		return nil, fmt.Errorf("error listing participants: %w", err)
	}
	defer rows.Close()

	participants := make([]models.EventParticipant, 0)
	for rows.Next() {
		var p models.EventParticipant
		if err := rows.Scan(&p.UserID, &p.FullName, &p.Email, &p.StudentID, &p.Role, &p.Status, &p.RegisteredAt, &p.AttendedAt); err != nil {
			return nil, fmt.Errorf("error scanning participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// CreateReport stores post-event notes
func (r *EventRepository) CreateReport(ctx context.Context, report *models.EventReport) error {
	sql, args, err := r.sb.Insert("event_reports").
		Columns("event_id", "notes", "uploaded_by").
		Values(report.EventID, report.Notes, report.UploadedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create report query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&report.ID, &report.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Int64("eventID", report.EventID).Msg("Error creating event report")
		return fmt.Errorf("error creating event report: %w", err)
	}
	return nil
}
