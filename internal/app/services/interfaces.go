package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/domain"
)

// Repository contracts consumed by the services. The squirrel/pgx
// implementations live in internal/app/repositories.

// UserRepository stores principals
type UserRepository interface {
	CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// TokenRepository stores refresh tokens
type TokenRepository interface {
	CreateToken(ctx context.Context, token string, userID uuid.UUID, expiryDate time.Time) error
	GetTokenOwner(ctx context.Context, token string) (uuid.UUID, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// ProfileRepository stores profiles and committee applications
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, id uuid.UUID, changes models.ProfileChanges) (*models.Profile, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (*models.Profile, error)
	UpdateClubRole(ctx context.Context, id uuid.UUID, role domain.ClubRole) (*models.Profile, error)
	List(ctx context.Context, offset, limit uint64) ([]models.Profile, int64, error)
	UpsertCommitteeApplication(ctx context.Context, app *models.CommitteeApplication) error
}

// TeamRepository stores teams and the single membership of each profile
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error)
	GetMembership(ctx context.Context, userID uuid.UUID) (*models.TeamMembership, error)
	SetMember(ctx context.Context, teamID, userID uuid.UUID, role domain.TeamRole) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
	LeaderIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
}

// EventRepository stores events, registrations and reports
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateCheckInCode(ctx context.Context, id int64, code string) error
	Delete(ctx context.Context, id int64) error
	Register(ctx context.Context, eventID int64, userID uuid.UUID, role domain.RegistrationRole) (*models.EventRegistration, *models.Event, error)
	GetRegistration(ctx context.Context, eventID int64, userID uuid.UUID) (*models.EventRegistration, error)
	MarkAttended(ctx context.Context, eventID int64, userID uuid.UUID, at time.Time) (bool, error)
	ListRegistrationsByUser(ctx context.Context, userID uuid.UUID) ([]models.EventRegistration, error)
	ListAttendedEvents(ctx context.Context, userID uuid.UUID) ([]models.AttendedEvent, error)
	ListParticipants(ctx context.Context, eventID int64) ([]models.EventParticipant, error)
	CreateReport(ctx context.Context, report *models.EventReport) error
}

// HourRequestRepository stores extra-hours requests
type HourRequestRepository interface {
	Create(ctx context.Context, req *models.HourRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.HourRequest, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]models.HourRequest, error)
	ListForReview(ctx context.Context, filter models.HourRequestFilter) ([]models.HourRequest, error)
	Review(ctx context.Context, review models.HourReview) (bool, error)
	ApprovedHours(ctx context.Context, requesterID uuid.UUID) ([]float64, error)
}

// DesignRequestRepository stores design tickets
type DesignRequestRepository interface {
	Create(ctx context.Context, req *models.DesignRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.DesignRequest, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]models.DesignRequest, error)
	ListByStatus(ctx context.Context, statuses []domain.DesignStatus, assignee *uuid.UUID) ([]models.DesignRequest, error)
	Transition(ctx context.Context, t models.DesignTransition) (bool, error)
}

// FileRepository keeps the metadata of stored uploads
type FileRepository interface {
	Create(ctx context.Context, file *domain.StoredFile) error
	DeleteByURL(ctx context.Context, fileURL string) error
}

// ContactRepository stores contact form messages
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	List(ctx context.Context, unreadOnly bool, offset, limit uint64) ([]models.ContactMessage, int64, error)
	MarkRead(ctx context.Context, id int64) error
}

// GalleryRepository stores gallery images
type GalleryRepository interface {
	Create(ctx context.Context, img *models.GalleryImage) error
	GetByID(ctx context.Context, id int64) (*models.GalleryImage, error)
	List(ctx context.Context, category *string) ([]models.GalleryImage, error)
	Delete(ctx context.Context, id int64) error
}

// Publisher pushes realtime notifications to connected users
type Publisher interface {
	Notify(recipients []uuid.UUID, notificationType string, payload interface{})
}

// Notifier receives workflow events after they are committed
type Notifier interface {
	HourRequestSubmitted(ctx context.Context, req *models.HourRequest)
	HourRequestReviewed(ctx context.Context, req *models.HourRequest)
	DesignRequestUpdated(ctx context.Context, req *models.DesignRequest, actorID uuid.UUID)
}
