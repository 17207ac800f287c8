package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/logger"
)

var contactColumns = []string{"id", "name", "email", "subject", "message", "is_read", "created_at"}

// ContactRepository handles contact form messages
type ContactRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create stores a message
func (r *ContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	sql, args, err := r.sb.Insert("contact_messages").
		Columns("name", "email", "subject", "message").
		Values(msg.Name, msg.Email, msg.Subject, msg.Message).
		Suffix("RETURNING id, is_read, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create contact message query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&msg.ID, &msg.IsRead, &msg.CreatedAt); err != nil {
		logger.Error().Err(err).Msg("Error creating contact message")
		return fmt.Errorf("error creating contact message: %w", err)
	}
	return nil
}

// List returns one page of messages, newest first
func (r *ContactRepository) List(ctx context.Context, unreadOnly bool, offset, limit uint64) ([]models.ContactMessage, int64, error) {
	where := squirrel.And{}
	if unreadOnly {
		where = append(where, squirrel.Eq{"is_read": false})
	}

	var total int64
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("contact_messages").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count contact messages query: %w", err)
	}
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting contact messages: %w", err)
	}

	sql, args, err := r.sb.Select(contactColumns...).
		From("contact_messages").
		Where(where).
		OrderBy("created_at DESC").
		Offset(offset).
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list contact messages query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing contact messages")
		return nil, 0, fmt.Errorf("error listing contact messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.ContactMessage, 0)
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning contact message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, total, rows.Err()
}

// MarkRead flags a message as read
func (r *ContactRepository) MarkRead(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("contact_messages").Set("is_read", true).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark read query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("messageID", id).Msg("Error marking contact message read")
		return fmt.Errorf("error marking contact message read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrContactMessageMissing
	}
	return nil
}
