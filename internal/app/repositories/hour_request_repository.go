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

var hourRequestColumns = []string{
	"h.id", "h.requester_id", "h.team_id", "h.activity_title", "h.task_description", "h.task_type",
	"h.proof_url", "h.status", "h.awarded_hours", "h.reviewed_by", "h.reviewed_at", "h.notes",
	"h.created_at", "h.updated_at", "COALESCE(p.full_name, '')", "t.name",
}

// HourRequestRepository handles extra-hours requests
type HourRequestRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewHourRequestRepository creates a new HourRequestRepository
func NewHourRequestRepository(db *pgxpool.Pool) *HourRequestRepository {
	return &HourRequestRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanHourRequest(row rowScanner) (*models.HourRequest, error) {
	var h models.HourRequest
	err := row.Scan(
		&h.ID, &h.RequesterID, &h.TeamID, &h.ActivityTitle, &h.TaskDescription, &h.TaskType,
		&h.ProofURL, &h.Status, &h.AwardedHours, &h.ReviewedBy, &h.ReviewedAt, &h.Notes,
		&h.CreatedAt, &h.UpdatedAt, &h.RequesterName, &h.TeamName,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HourRequestRepository) selectRequests() squirrel.SelectBuilder {
	return r.sb.Select(hourRequestColumns...).
		From("extra_hours_requests h").
		LeftJoin("profiles p ON p.id = h.requester_id").
		LeftJoin("teams t ON t.id = h.team_id")
}

// Create inserts a request. Manual grants arrive already approved.
func (r *HourRequestRepository) Create(ctx context.Context, req *models.HourRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	sql, args, err := r.sb.Insert("extra_hours_requests").
		Columns("id", "requester_id", "team_id", "activity_title", "task_description", "task_type",
			"proof_url", "status", "awarded_hours", "reviewed_by", "reviewed_at", "notes").
		Values(req.ID, req.RequesterID, req.TeamID, req.ActivityTitle, req.TaskDescription, req.TaskType,
			req.ProofURL, req.Status, req.AwardedHours, req.ReviewedBy, req.ReviewedAt, req.Notes).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create hour request query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&req.CreatedAt, &req.UpdatedAt); err != nil {
		switch {
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrProfileNotFound
		case dberrors.IsCheckViolation(err):
			return apperrors.NewValidationError("awardedHours", "awarded hours do not match the request status")
		}
		logger.Error().Err(err).Str("requesterID", req.RequesterID.String()).Msg("Error creating hour request")
		return fmt.Errorf("error creating hour request: %w", err)
	}
	return nil
}

// GetByID returns a request with requester and team names
func (r *HourRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.HourRequest, error) {
	sql, args, err := r.selectRequests().Where(squirrel.Eq{"h.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get hour request query: %w", err)
	}

	req, err := scanHourRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrHourRequestNotFound
		}
		logger.Error().Err(err).Str("requestID", id.String()).Msg("Error scanning hour request row")
		return nil, fmt.Errorf("error retrieving hour request: %w", err)
	}
	return req, nil
}

// ListByRequester returns a member's own requests, newest first
func (r *HourRequestRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]models.HourRequest, error) {
	return r.list(ctx, r.selectRequests().
		Where(squirrel.Eq{"h.requester_id": requesterID}).
		OrderBy("h.created_at DESC"))
}

// ListForReview returns requests in the given statuses. A non-nil TeamID
// keeps only requesters currently in that team.
func (r *HourRequestRepository) ListForReview(ctx context.Context, filter models.HourRequestFilter) ([]models.HourRequest, error) {
	q := r.selectRequests()
	if len(filter.Statuses) > 0 {
		q = q.Where(squirrel.Eq{"h.status": filter.Statuses})
	}
	if filter.TeamID != nil {
		q = q.Where(squirrel.Expr("h.requester_id IN (SELECT user_id FROM team_members WHERE team_id = ?)", *filter.TeamID))
	}
	return r.list(ctx, q.OrderBy("h.created_at DESC"))
}

func (r *HourRequestRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]models.HourRequest, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list hour requests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing hour requests")
		return nil, fmt.Errorf("error listing hour requests: %w", err)
	}
	defer rows.Close()

	requests := make([]models.HourRequest, 0)
	for rows.Next() {
		req, err := scanHourRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning hour request: %w", err)
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// Review applies a decision to a request that is still pending. When
// RestrictToTeam is set the requester must currently belong to that team.
// It reports false when no row matched; the caller re-reads to tell why.
func (r *HourRequestRepository) Review(ctx context.Context, review models.HourReview) (bool, error) {
	q := r.sb.Update("extra_hours_requests").
		Set("status", review.Status).
		Set("awarded_hours", review.AwardedHours).
		Set("reviewed_by", review.ReviewerID).
		Set("reviewed_at", time.Now()).
		Set("notes", review.Notes).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": review.RequestID, "status": domain.HourRequestPending})
	if review.RestrictToTeam != nil {
		q = q.Where(squirrel.Expr("requester_id IN (SELECT user_id FROM team_members WHERE team_id = ?)", *review.RestrictToTeam))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build review hour request query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return false, apperrors.NewValidationError("awardedHours", "awarded hours do not match the decision")
		}
		logger.Error().Err(err).Str("requestID", review.RequestID.String()).Msg("Error reviewing hour request")
		return false, fmt.Errorf("error reviewing hour request: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ApprovedHours returns the awarded hours of a user's approved requests
func (r *HourRequestRepository) ApprovedHours(ctx context.Context, requesterID uuid.UUID) ([]float64, error) {
	sql, args, err := r.sb.Select("awarded_hours").
		From("extra_hours_requests").
		Where(squirrel.Eq{"requester_id": requesterID, "status": domain.HourRequestApproved}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build approved hours query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", requesterID.String()).Msg("Error listing approved hours")
		return nil, fmt.Errorf("error listing approved hours: %w", err)
	}
	defer rows.Close()

	hours := make([]float64, 0)
	for rows.Next() {
		var h float64
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("error scanning approved hours: %w", err)
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}
