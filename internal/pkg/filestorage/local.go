package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory on disk
	baseURL  string // public prefix, "/uploads" when empty
}

// NewLocalStorage creates the base directory and returns a LocalStorage.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	if baseURL == "" {
		baseURL = "/uploads"
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save validates size and content type, then writes the upload under a random name.
func (ls *LocalStorage) Save(ctx context.Context, fileHeader *multipart.FileHeader, resource domain.ResourceType) (*domain.StoredFile, error) {
	if fileHeader == nil {
		return nil, fmt.Errorf("no file provided")
	}
	if fileHeader.Size > domain.MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	// Sniff the real content type rather than trusting the client header
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	mimeType := http.DetectContentType(head[:n])
	if !resource.AcceptsMimeType(mimeType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	dir := filepath.Join(ls.basePath, string(resource))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return nil, fmt.Errorf("failed to create subdirectory: %w", err)
	}

	uniqueFilename := uuid.New().String() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	dstPath := filepath.Join(dir, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(file, domain.MaxUploadSize+1))
	if err == nil && written > domain.MaxUploadSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(dstPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	stored := &domain.StoredFile{
		FileName:     fileHeader.Filename,
		FileURL:      ls.baseURL + "/" + string(resource) + "/" + uniqueFilename,
		FileSize:     written,
		MimeType:     mimeType,
		ResourceType: resource,
		CreatedAt:    time.Now(),
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("url", stored.FileURL).Msg("File saved successfully")
	return stored, nil
}

// Delete removes a previously saved file. Only URLs under the storage prefix are accepted.
func (ls *LocalStorage) Delete(ctx context.Context, fileURL string) error {
	physicalPath, err := ls.physicalPath(fileURL)
	if err != nil {
		return err
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

func (ls *LocalStorage) physicalPath(fileURL string) (string, error) {
	rel := strings.TrimPrefix(fileURL, ls.baseURL+"/")
	if rel == fileURL || rel == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidStoragePath, fileURL)
	}

	dir, name := path.Split(path.Clean(rel))
	dir = strings.Trim(dir, "/")
	if name == "" || name == "." || strings.Contains(dir, "..") || strings.Contains(dir, "/") {
		return "", fmt.Errorf("%w: %s", ErrInvalidStoragePath, fileURL)
	}

	return filepath.Join(ls.basePath, dir, name), nil
}
