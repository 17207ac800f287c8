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

var profileColumns = []string{
	"id", "full_name", "email", "student_id", "college", "major", "phone_number",
	"club_role", "avatar_url", "committee", "created_at", "updated_at",
}

// ProfileRepository handles profile and committee application persistence
type ProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.FullName, &p.Email, &p.StudentID, &p.College, &p.Major, &p.PhoneNumber,
		&p.ClubRole, &p.AvatarURL, &p.Committee, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func insertProfile(ctx context.Context, q queryer, sb squirrel.StatementBuilderType, p *models.Profile) error {
	if p.ClubRole == "" {
		p.ClubRole = domain.ClubRoleMember
	}

	sql, args, err := sb.Insert("profiles").
		Columns("id", "full_name", "email", "student_id", "college", "major", "phone_number", "club_role").
		Values(p.ID, p.FullName, p.Email, p.StudentID, p.College, p.Major, p.PhoneNumber, p.ClubRole).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create profile query: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrProfileAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("userID", p.ID.String()).Msg("Error creating profile")
		return fmt.Errorf("error creating profile: %w", err)
	}
	return nil
}

// Create inserts a profile for an existing account
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return insertProfile(ctx, r.db, r.sb, profile)
}

// GetByID returns the profile of a principal
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	sql, args, err := r.sb.Select(profileColumns...).From("profiles").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	profile, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Str("userID", id.String()).Msg("Error scanning profile row")
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}
	return profile, nil
}

// Update applies self-edited fields and returns the updated profile
func (r *ProfileRepository) Update(ctx context.Context, id uuid.UUID, changes models.ProfileChanges) (*models.Profile, error) {
	if changes.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	clauses := map[string]interface{}{"updated_at": time.Now()}
	if changes.FullName != nil {
		clauses["full_name"] = *changes.FullName
	}
	if changes.StudentID != nil {
		clauses["student_id"] = *changes.StudentID
	}
	if changes.College != nil {
		clauses["college"] = *changes.College
	}
	if changes.Major != nil {
		clauses["major"] = *changes.Major
	}
	if changes.PhoneNumber != nil {
		clauses["phone_number"] = *changes.PhoneNumber
	}

	return r.updateReturning(ctx, id, clauses)
}

// UpdateAvatar stores a new avatar URL
func (r *ProfileRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (*models.Profile, error) {
	return r.updateReturning(ctx, id, map[string]interface{}{"avatar_url": avatarURL, "updated_at": time.Now()})
}

// UpdateClubRole changes a principal's club role
func (r *ProfileRepository) UpdateClubRole(ctx context.Context, id uuid.UUID, role domain.ClubRole) (*models.Profile, error) {
	return r.updateReturning(ctx, id, map[string]interface{}{"club_role": role, "updated_at": time.Now()})
}

func (r *ProfileRepository) updateReturning(ctx context.Context, id uuid.UUID, clauses map[string]interface{}) (*models.Profile, error) {
	sql, args, err := r.sb.Update("profiles").
		SetMap(clauses).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(profileColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update profile query: %w", err)
	}

	profile, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Str("userID", id.String()).Msg("Error updating profile")
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return profile, nil
}

// List returns one page of profiles ordered by name
func (r *ProfileRepository) List(ctx context.Context, offset, limit uint64) ([]models.Profile, int64, error) {
	var total int64
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("profiles").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count profiles query: %w", err)
	}
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting profiles: %w", err)
	}

	sql, args, err := r.sb.Select(profileColumns...).
		From("profiles").
		OrderBy("full_name ASC", "id ASC").
		Offset(offset).
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list profiles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing profiles")
		return nil, 0, fmt.Errorf("error listing profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, total, rows.Err()
}

// UpsertCommitteeApplication stores the application and records the
// preferred committee on the profile
func (r *ProfileRepository) UpsertCommitteeApplication(ctx context.Context, app *models.CommitteeApplication) error {
	now := time.Now()
	appSQL, appArgs, err := r.sb.Insert("committee_applications").
		Columns("user_id", "committee", "motivation", "experience", "created_at", "updated_at").
		Values(app.UserID, app.Committee, app.Motivation, app.Experience, now, now).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			committee = EXCLUDED.committee,
			motivation = EXCLUDED.motivation,
			experience = EXCLUDED.experience,
			updated_at = EXCLUDED.updated_at
			RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build committee application query: %w", err)
	}

	profileSQL, profileArgs, err := r.sb.Update("profiles").
		Set("committee", app.Committee).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": app.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build profile committee query: %w", err)
	}

	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, appSQL, appArgs...).Scan(&app.CreatedAt, &app.UpdatedAt); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrProfileNotFound
			}
			logger.Error().Err(err).Str("userID", app.UserID.String()).Msg("Error upserting committee application")
			return fmt.Errorf("error saving committee application: %w", err)
		}
		if _, err := tx.Exec(ctx, profileSQL, profileArgs...); err != nil {
			return fmt.Errorf("error recording committee on profile: %w", err)
		}
		return nil
	})
}
