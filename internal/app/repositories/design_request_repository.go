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
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/dberrors"
	"github.com/yigit/clubhub/internal/pkg/logger"
)

var designRequestColumns = []string{
	"d.id", "d.requester_id", "d.title", "d.design_type", "d.description", "d.deadline", "d.status",
	"d.assigned_to", "d.design_url", "d.feedback_notes", "d.created_at", "d.updated_at",
	"COALESCE(rp.full_name, '')", "ap.full_name",
}

// DesignRequestRepository handles design requests
type DesignRequestRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDesignRequestRepository creates a new DesignRequestRepository
func NewDesignRequestRepository(db *pgxpool.Pool) *DesignRequestRepository {
	return &DesignRequestRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanDesignRequest(row rowScanner) (*models.DesignRequest, error) {
	var d models.DesignRequest
	err := row.Scan(
		&d.ID, &d.RequesterID, &d.Title, &d.DesignType, &d.Description, &d.Deadline, &d.Status,
		&d.AssignedTo, &d.DesignURL, &d.FeedbackNotes, &d.CreatedAt, &d.UpdatedAt,
		&d.RequesterName, &d.AssigneeName,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DesignRequestRepository) selectRequests() squirrel.SelectBuilder {
	return r.sb.Select(designRequestColumns...).
		From("design_requests d").
		LeftJoin("profiles rp ON rp.id = d.requester_id").
		LeftJoin("profiles ap ON ap.id = d.assigned_to")
}

// Create inserts a new request in status new
func (r *DesignRequestRepository) Create(ctx context.Context, req *models.DesignRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.Status = domain.DesignNew

	sql, args, err := r.sb.Insert("design_requests").
		Columns("id", "requester_id", "title", "design_type", "description", "deadline", "status").
		Values(req.ID, req.RequesterID, req.Title, req.DesignType, req.Description, req.Deadline, req.Status).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create design request query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&req.CreatedAt, &req.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Str("requesterID", req.RequesterID.String()).Msg("Error creating design request")
		return fmt.Errorf("error creating design request: %w", err)
	}
	return nil
}

// GetByID returns a request with requester and assignee names
func (r *DesignRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DesignRequest, error) {
	sql, args, err := r.selectRequests().Where(squirrel.Eq{"d.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get design request query: %w", err)
	}

	req, err := scanDesignRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDesignRequestNotFound
		}
		logger.Error().Err(err).Str("requestID", id.String()).Msg("Error scanning design request row")
		return nil, fmt.Errorf("error retrieving design request: %w", err)
	}
	return req, nil
}

// ListByRequester returns the caller's own requests, newest first
func (r *DesignRequestRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]models.DesignRequest, error) {
	return r.list(ctx, r.selectRequests().
		Where(squirrel.Eq{"d.requester_id": requesterID}).
		OrderBy("d.created_at DESC"))
}

// ListByStatus returns requests in the given statuses, optionally limited to one assignee
func (r *DesignRequestRepository) ListByStatus(ctx context.Context, statuses []domain.DesignStatus, assignee *uuid.UUID) ([]models.DesignRequest, error) {
	q := r.selectRequests().Where(squirrel.Eq{"d.status": statuses})
	if assignee != nil {
		q = q.Where(squirrel.Eq{"d.assigned_to": *assignee})
	}
	return r.list(ctx, q.OrderBy("d.deadline ASC NULLS LAST", "d.created_at ASC"))
}

func (r *DesignRequestRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]models.DesignRequest, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list design requests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing design requests")
		return nil, fmt.Errorf("error listing design requests: %w", err)
	}
	defer rows.Close()

	requests := make([]models.DesignRequest, 0)
	for rows.Next() {
		req, err := scanDesignRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning design request: %w", err)
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// Transition moves a request to t.To only if its status is still one of
// t.From (and its assignee matches t.RequireAssignee when set). It reports
// false when no row matched.
func (r *DesignRequestRepository) Transition(ctx context.Context, t models.DesignTransition) (bool, error) {
	q := r.sb.Update("design_requests").
		Set("status", t.To).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": t.RequestID, "status": t.From})
	if t.AssignTo != nil {
		q = q.Set("assigned_to", *t.AssignTo)
	}
	if t.DesignURL != nil {
		q = q.Set("design_url", *t.DesignURL)
	}
	if t.FeedbackNotes != nil {
		q = q.Set("feedback_notes", *t.FeedbackNotes)
	}
	if t.RequireAssignee != nil {
		q = q.Where(squirrel.Eq{"assigned_to": *t.RequireAssignee})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build design transition query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("requestID", t.RequestID.String()).Str("to", string(t.To)).Msg("Error transitioning design request")
		return false, fmt.Errorf("error updating design request: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
