package services

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/filestorage"
)

// uploader stores a blob and records its metadata. Owners keep only the URL.
type uploader struct {
	storage filestorage.FileStorage
	files   FileRepository
	logger  zerolog.Logger
}

// FileUploads bundles the storage backend with the file metadata store.
// A zero value disables uploads.
type FileUploads struct {
	Storage filestorage.FileStorage
	Files   FileRepository
}

func (f FileUploads) uploader(logger zerolog.Logger) *uploader {
	if f.Storage == nil || f.Files == nil {
		return nil
	}
	return &uploader{storage: f.Storage, files: f.Files, logger: logger}
}

// store saves the upload and returns its public URL
func (u *uploader) store(ctx context.Context, fileHeader *multipart.FileHeader, resource domain.ResourceType, uploadedBy uuid.UUID) (string, error) {
	if u == nil || u.storage == nil {
		return "", apperrors.NewBadRequestError("file uploads are not available")
	}

	stored, err := u.storage.Save(ctx, fileHeader, resource)
	if err != nil {
		switch {
		case errors.Is(err, filestorage.ErrFileTooLarge):
			return "", apperrors.NewValidationError("file", "file exceeds the 10 MB limit")
		case errors.Is(err, filestorage.ErrUnsupportedType):
			return "", apperrors.NewValidationError("file", "file type is not accepted here")
		}
		return "", err
	}
	stored.UploadedBy = uploadedBy

	if err := u.files.Create(ctx, stored); err != nil {
		u.discard(ctx, stored.FileURL)
		return "", err
	}
	return stored.FileURL, nil
}

// discard removes a stored file and its metadata. Failures are only logged.
func (u *uploader) discard(ctx context.Context, fileURL string) {
	if u == nil || u.storage == nil || fileURL == "" {
		return
	}
	if err := u.storage.Delete(ctx, fileURL); err != nil {
		u.logger.Warn().Err(err).Str("url", fileURL).Msg("Failed to delete stored file")
	}
	if err := u.files.DeleteByURL(ctx, fileURL); err != nil {
		u.logger.Warn().Err(err).Str("url", fileURL).Msg("Failed to delete file record")
	}
}
