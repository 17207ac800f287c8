package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/logger"
)

// FileRepository records metadata of uploaded files
type FileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create records a stored file and sets its ID
func (r *FileRepository) Create(ctx context.Context, file *domain.StoredFile) error {
	sql, args, err := r.sb.Insert("files").
		Columns("file_name", "file_url", "file_size", "mime_type", "resource_type", "uploaded_by").
		Values(file.FileName, file.FileURL, file.FileSize, file.MimeType, file.ResourceType, file.UploadedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create file query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&file.ID, &file.CreatedAt); err != nil {
		logger.Error().Err(err).Str("fileURL", file.FileURL).Msg("Error creating file record")
		return fmt.Errorf("error creating file: %w", err)
	}
	return nil
}

// DeleteByURL removes the metadata of a file
func (r *FileRepository) DeleteByURL(ctx context.Context, fileURL string) error {
	sql, args, err := r.sb.Delete("files").Where(squirrel.Eq{"file_url": fileURL}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete file query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("fileURL", fileURL).Msg("Error deleting file record")
		return fmt.Errorf("error deleting file: %w", err)
	}
	return nil
}
