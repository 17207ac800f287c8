package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/logger"
)

var galleryColumns = []string{"id", "image_url", "alt_text", "category", "uploaded_by", "created_at"}

// GalleryRepository handles gallery images
type GalleryRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGalleryRepository creates a new GalleryRepository
func NewGalleryRepository(db *pgxpool.Pool) *GalleryRepository {
	return &GalleryRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanGalleryImage(row rowScanner) (*models.GalleryImage, error) {
	var (
		img        models.GalleryImage
		uploadedBy *uuid.UUID
	)
	if err := row.Scan(&img.ID, &img.ImageURL, &img.AltText, &img.Category, &uploadedBy, &img.CreatedAt); err != nil {
		return nil, err
	}
	if uploadedBy != nil {
		img.UploadedBy = *uploadedBy
	}
	return &img, nil
}

// Create stores an image
func (r *GalleryRepository) Create(ctx context.Context, img *models.GalleryImage) error {
	sql, args, err := r.sb.Insert("gallery_images").
		Columns("image_url", "alt_text", "category", "uploaded_by").
		Values(img.ImageURL, img.AltText, img.Category, img.UploadedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create gallery image query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&img.ID, &img.CreatedAt); err != nil {
		logger.Error().Err(err).Msg("Error creating gallery image")
		return fmt.Errorf("error creating gallery image: %w", err)
	}
	return nil
}

// GetByID returns one image
func (r *GalleryRepository) GetByID(ctx context.Context, id int64) (*models.GalleryImage, error) {
	sql, args, err := r.sb.Select(galleryColumns...).From("gallery_images").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get gallery image query: %w", err)
	}

	img, err := scanGalleryImage(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGalleryImageNotFound
		}
		return nil, fmt.Errorf("error retrieving gallery image: %w", err)
	}
	return img, nil
}

// List returns images, newest first, optionally filtered by category
func (r *GalleryRepository) List(ctx context.Context, category *string) ([]models.GalleryImage, error) {
	q := r.sb.Select(galleryColumns...).From("gallery_images").OrderBy("created_at DESC")
	if category != nil {
		q = q.Where(squirrel.Eq{"category": *category})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list gallery query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing gallery images")
		return nil, fmt.Errorf("error listing gallery images: %w", err)
	}
	defer rows.Close()

	images := make([]models.GalleryImage, 0)
	for rows.Next() {
		img, err := scanGalleryImage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning gallery image: %w", err)
		}
		images = append(images, *img)
	}
	return images, rows.Err()
}

// Delete removes an image row
func (r *GalleryRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("gallery_images").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete gallery image query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("imageID", id).Msg("Error deleting gallery image")
		return fmt.Errorf("error deleting gallery image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrGalleryImageNotFound
	}
	return nil
}
