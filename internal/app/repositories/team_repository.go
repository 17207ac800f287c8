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

var teamColumns = []string{"id", "name", "leader_title", "description", "created_by", "created_at", "updated_at"}

// TeamRepository handles teams and team memberships
type TeamRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanTeam(row rowScanner) (*models.Team, error) {
	var (
		t         models.Team
		createdBy *uuid.UUID
	)
	if err := row.Scan(&t.ID, &t.Name, &t.LeaderTitle, &t.Description, &createdBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if createdBy != nil {
		t.CreatedBy = *createdBy
	}
	return &t, nil
}

// Create inserts a team
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}

	var createdBy *uuid.UUID
	if team.CreatedBy != uuid.Nil {
		createdBy = &team.CreatedBy
	}

	sql, args, err := r.sb.Insert("teams").
		Columns("id", "name", "leader_title", "description", "created_by").
		Values(team.ID, team.Name, team.LeaderTitle, team.Description, createdBy).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create team query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&team.CreatedAt, &team.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "teams_name_key") {
			return apperrors.NewConflictError("a team with this name already exists")
		}
		logger.Error().Err(err).Str("name", team.Name).Msg("Error creating team")
		return fmt.Errorf("error creating team: %w", err)
	}
	return nil
}

// GetByID returns a team without its members
func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *TeamRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Team, error) {
	sql, args, err := r.sb.Select(teamColumns...).From("teams").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get team query: %w", err)
	}

	team, err := scanTeam(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeamNotFound
		}
		logger.Error().Err(err).Msg("Error scanning team row")
		return nil, fmt.Errorf("error retrieving team: %w", err)
	}
	return team, nil
}

// List returns all teams ordered by name
func (r *TeamRepository) List(ctx context.Context) ([]models.Team, error) {
	sql, args, err := r.sb.Select(teamColumns...).From("teams").OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list teams query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing teams")
		return nil, fmt.Errorf("error listing teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning team: %w", err)
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

// ListMembers returns the members of a team joined with their profiles
func (r *TeamRepository) ListMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	sql, args, err := r.sb.Select("tm.team_id", "tm.user_id", "tm.role_in_team", "tm.joined_at", "p.full_name", "p.email").
		From("team_members tm").
		Join("profiles p ON p.id = tm.user_id").
		Where(squirrel.Eq{"tm.team_id": teamID}).
		OrderBy("tm.role_in_team ASC", "p.full_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list members query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("teamID", teamID.String()).Msg("Error listing team members")
		return nil, fmt.Errorf("error listing team members: %w", err)
	}
	defer rows.Close()

	members := make([]models.TeamMember, 0)
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.RoleInTeam, &m.JoinedAt, &m.FullName, &m.Email); err != nil {
			return nil, fmt.Errorf("error scanning team member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetMembership returns the team of a profile, or nil when it has none
func (r *TeamRepository) GetMembership(ctx context.Context, userID uuid.UUID) (*models.TeamMembership, error) {
	sql, args, err := r.sb.Select("t.id", "t.name", "t.leader_title", "tm.role_in_team").
		From("team_members tm").
		Join("teams t ON t.id = tm.team_id").
		Where(squirrel.Eq{"tm.user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get membership query: %w", err)
	}

	var m models.TeamMembership
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&m.TeamID, &m.Name, &m.LeaderTitle, &m.RoleInTeam); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error scanning membership row")
		return nil, fmt.Errorf("error retrieving team membership: %w", err)
	}
	return &m, nil
}

// SetMember adds a profile to a team or changes its role there. A profile
// that already belongs to another team is rejected.
func (r *TeamRepository) SetMember(ctx context.Context, teamID, userID uuid.UUID, role domain.TeamRole) (*models.TeamMember, error) {
	sql, args, err := r.sb.Insert("team_members").
		Columns("team_id", "user_id", "role_in_team", "joined_at").
		Values(teamID, userID, role, time.Now()).
		Suffix("ON CONFLICT (team_id, user_id) DO UPDATE SET role_in_team = EXCLUDED.role_in_team RETURNING joined_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build set member query: %w", err)
	}

	member := &models.TeamMember{TeamID: teamID, UserID: userID, RoleInTeam: role}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&member.JoinedAt); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "team_members_user_id_key"):
			return nil, apperrors.ErrAlreadyInTeam
		case dberrors.IsForeignKeyViolation(err):
			return nil, apperrors.NewResourceNotFoundError("team or profile not found")
		}
		logger.Error().Err(err).Str("teamID", teamID.String()).Str("userID", userID.String()).Msg("Error setting team member")
		return nil, fmt.Errorf("error setting team member: %w", err)
	}
	return member, nil
}

// RemoveMember removes a profile from a team
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	sql, args, err := r.sb.Delete("team_members").
		Where(squirrel.Eq{"team_id": teamID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build remove member query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("teamID", teamID.String()).Msg("Error removing team member")
		return fmt.Errorf("error removing team member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("team member not found")
	}
	return nil
}

// LeaderIDs returns the profiles leading a team
func (r *TeamRepository) LeaderIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	sql, args, err := r.sb.Select("user_id").
		From("team_members").
		Where(squirrel.Eq{"team_id": teamID, "role_in_team": domain.TeamRoleLeader}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build team leaders query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing team leaders: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning team leader: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
