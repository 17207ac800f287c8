package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
)

type mockContactRepo struct {
	mock.Mock
}

func (m *mockContactRepo) Create(ctx context.Context, msg *models.ContactMessage) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil {
		msg.ID = 7
	}
	return args.Error(0)
}

func (m *mockContactRepo) List(ctx context.Context, unreadOnly bool, offset, limit uint64) ([]models.ContactMessage, int64, error) {
	args := m.Called(ctx, unreadOnly, offset, limit)
	return args.Get(0).([]models.ContactMessage), args.Get(1).(int64), args.Error(2)
}

func (m *mockContactRepo) MarkRead(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockGalleryRepo struct {
	mock.Mock
}

func (m *mockGalleryRepo) Create(ctx context.Context, img *models.GalleryImage) error {
	return m.Called(ctx, img).Error(0)
}

func (m *mockGalleryRepo) GetByID(ctx context.Context, id int64) (*models.GalleryImage, error) {
	args := m.Called(ctx, id)
	img, _ := args.Get(0).(*models.GalleryImage)
	return img, args.Error(1)
}

func (m *mockGalleryRepo) List(ctx context.Context, category *string) ([]models.GalleryImage, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]models.GalleryImage), args.Error(1)
}

func (m *mockGalleryRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestContactService_Submit(t *testing.T) {
	f := newFixture()
	repo := &mockContactRepo{}
	svc := NewContactService(repo, f.authz, f.logger)
	ctx := context.Background()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(m *models.ContactMessage) bool {
		return m.Email == "guest@mail.example" && m.Name == "Guest" && m.Subject == nil
	})).Return(nil).Once()

	msg, err := svc.Submit(ctx, &dto.ContactRequest{
		Name:    "  Guest ",
		Email:   " Guest@Mail.Example",
		Subject: ptr("   "),
		Message: "Can I join?",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), msg.ID)

	_, err = svc.Submit(ctx, &dto.ContactRequest{Name: "Guest", Email: "g@mail.example", Message: "   "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	repo.AssertExpectations(t)
}

func TestContactService_LeadershipOnly(t *testing.T) {
	f := newFixture()
	repo := &mockContactRepo{}
	svc := NewContactService(repo, f.authz, f.logger)
	ctx := context.Background()
	leader := f.addProfile(t, "leader", domain.ClubRoleDeputy)
	member := f.addProfile(t, "member", domain.ClubRoleMember)

	_, err := svc.List(ctx, f.actor(t, member), false, 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, svc.MarkRead(ctx, f.actor(t, member), 1), apperrors.ErrPermissionDenied)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	repo.On("List", mock.Anything, true, uint64(20), uint64(20)).
		Return([]models.ContactMessage{{ID: 3, Name: "Guest"}}, int64(21), nil).Once()
	page, err := svc.List(ctx, f.actor(t, leader), true, 2, 20)
	require.NoError(t, err)
	assert.Len(t, page.Messages, 1)
	assert.Equal(t, 2, page.PaginationInfo.TotalPages)
	assert.Equal(t, 2, page.PaginationInfo.CurrentPage)

	repo.On("MarkRead", mock.Anything, int64(3)).Return(nil).Once()
	require.NoError(t, svc.MarkRead(ctx, f.actor(t, leader), 3))
	repo.AssertExpectations(t)
}

func TestGalleryService_ListFiltersByCategory(t *testing.T) {
	f := newFixture()
	repo := &mockGalleryRepo{}
	svc := NewGalleryService(repo, FileUploads{}, f.authz, f.logger)
	ctx := context.Background()

	repo.On("List", mock.Anything, (*string)(nil)).Return([]models.GalleryImage{{ID: 1}, {ID: 2}}, nil).Once()
	repo.On("List", mock.Anything, mock.MatchedBy(func(c *string) bool { return c != nil && *c == "events" })).
		Return([]models.GalleryImage{{ID: 2}}, nil).Once()

	all, err := svc.List(ctx, " ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	events, err := svc.List(ctx, " events ")
	require.NoError(t, err)
	assert.Len(t, events, 1)
	repo.AssertExpectations(t)
}

func TestGalleryService_Upload(t *testing.T) {
	f := newFixture()
	repo := &mockGalleryRepo{}
	svc := NewGalleryService(repo, FileUploads{}, f.authz, f.logger)
	ctx := context.Background()
	leader := f.addProfile(t, "leader", domain.ClubRoleLeader)
	member := f.addProfile(t, "member", domain.ClubRoleMember)
	req := &dto.GalleryUploadRequest{Category: "events"}

	_, err := svc.Upload(ctx, f.actor(t, member), req, &multipart.FileHeader{Filename: "a.png"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.Upload(ctx, f.actor(t, leader), req, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Upload(ctx, f.actor(t, leader), req, &multipart.FileHeader{Filename: "a.png"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGalleryService_Delete(t *testing.T) {
	f := newFixture()
	repo := &mockGalleryRepo{}
	svc := NewGalleryService(repo, FileUploads{}, f.authz, f.logger)
	ctx := context.Background()
	leader := f.addProfile(t, "leader", domain.ClubRoleSupervisor)
	member := f.addProfile(t, "member", domain.ClubRoleMember)

	assert.ErrorIs(t, svc.Delete(ctx, f.actor(t, member), 1), apperrors.ErrPermissionDenied)

	repo.On("GetByID", mock.Anything, int64(9)).Return(nil, apperrors.ErrGalleryImageNotFound).Once()
	assert.ErrorIs(t, svc.Delete(ctx, f.actor(t, leader), 9), apperrors.ErrGalleryImageNotFound)

	repo.On("GetByID", mock.Anything, int64(1)).
		Return(&models.GalleryImage{ID: 1, ImageURL: "http://localhost/uploads/gallery/a.png"}, nil).Once()
	repo.On("Delete", mock.Anything, int64(1)).Return(nil).Once()
	require.NoError(t, svc.Delete(ctx, f.actor(t, leader), 1))

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Delete", mock.Anything, int64(9))
}
