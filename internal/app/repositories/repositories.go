package repositories

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// queryer is satisfied by *pgxpool.Pool and pgx.Tx
type queryer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

// Repositories groups every repository of the application
type Repositories struct {
	User          *UserRepository
	Token         *TokenRepository
	Profile       *ProfileRepository
	Team          *TeamRepository
	Event         *EventRepository
	HourRequest   *HourRequestRepository
	DesignRequest *DesignRequestRepository
	Contact       *ContactRepository
	Gallery       *GalleryRepository
	File          *FileRepository
}

// NewRepositories creates every repository on the shared pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Token:         NewTokenRepository(db),
		Profile:       NewProfileRepository(db),
		Team:          NewTeamRepository(db),
		Event:         NewEventRepository(db),
		HourRequest:   NewHourRequestRepository(db),
		DesignRequest: NewDesignRequestRepository(db),
		Contact:       NewContactRepository(db),
		Gallery:       NewGalleryRepository(db),
		File:          NewFileRepository(db),
	}
}
