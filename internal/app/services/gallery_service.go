package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
)

// GalleryService manages the public photo gallery
type GalleryService interface {
	List(ctx context.Context, category string) ([]models.GalleryImage, error)
	Upload(ctx context.Context, actor *auth.Actor, req *dto.GalleryUploadRequest, file *multipart.FileHeader) (*models.GalleryImage, error)
	Delete(ctx context.Context, actor *auth.Actor, id int64) error
}

// galleryServiceImpl implements GalleryService
type galleryServiceImpl struct {
	galleryRepo  GalleryRepository
	uploads      *uploader
	authzService *auth.AuthorizationService
	logger       zerolog.Logger
}

// NewGalleryService creates a new GalleryService
func NewGalleryService(galleryRepo GalleryRepository, files FileUploads, authzService *auth.AuthorizationService, logger zerolog.Logger) GalleryService {
	return &galleryServiceImpl{
		galleryRepo:  galleryRepo,
		uploads:      files.uploader(logger),
		authzService: authzService,
		logger:       logger,
	}
}

// List returns gallery images, optionally of one category
func (s *galleryServiceImpl) List(ctx context.Context, category string) ([]models.GalleryImage, error) {
	var filter *string
	if c := strings.TrimSpace(category); c != "" {
		filter = &c
	}
	return s.galleryRepo.List(ctx, filter)
}

// Upload stores a new gallery image (club leadership)
func (s *galleryServiceImpl) Upload(ctx context.Context, actor *auth.Actor, req *dto.GalleryUploadRequest, file *multipart.FileHeader) (*models.GalleryImage, error) {
	if err := s.authzService.RequireScope(actor, domain.ScopeClubLeadership); err != nil {
		return nil, err
	}
	if file == nil {
		return nil, apperrors.NewValidationError("image", "an image file is required")
	}

	url, err := s.uploads.store(ctx, file, domain.ResourceTypeGallery, actor.UserID)
	if err != nil {
		return nil, err
	}

	img := &models.GalleryImage{
		ImageURL:   url,
		AltText:    nonEmpty(req.AltText),
		Category:   strings.TrimSpace(req.Category),
		UploadedBy: actor.UserID,
	}
	if err := s.galleryRepo.Create(ctx, img); err != nil {
		s.uploads.discard(ctx, url)
		return nil, err
	}

	s.logger.Info().Int64("imageID", img.ID).Str("category", img.Category).Msg("Gallery image uploaded")
	return img, nil
}

// Delete removes an image and its stored file (club leadership)
func (s *galleryServiceImpl) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := s.authzService.RequireScope(actor, domain.ScopeClubLeadership); err != nil {
		return err
	}

	img, err := s.galleryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.galleryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.uploads.discard(ctx, img.ImageURL)
	return nil
}
