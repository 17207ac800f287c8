package filestorage

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/yigit/clubhub/internal/domain"
)

// Upload errors
var (
	ErrFileTooLarge       = errors.New("file exceeds the upload size limit")
	ErrUnsupportedType    = errors.New("file type is not accepted for this upload")
	ErrInvalidStoragePath = errors.New("invalid storage path")
)

// FileStorage stores uploaded blobs and hands back a stable public URL.
// Owners only keep the URL.
type FileStorage interface {
	// Save stores the upload under the resource's subdirectory
	Save(ctx context.Context, fileHeader *multipart.FileHeader, resource domain.ResourceType) (*domain.StoredFile, error)

	// Delete removes a file by the URL Save returned. Missing files are not an error.
	Delete(ctx context.Context, fileURL string) error
}
