package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/clubhub/internal/app/models"
	appRepos "github.com/yigit/clubhub/internal/app/repositories"
	"github.com/yigit/clubhub/internal/config"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/auth"
)

// TeamCreator creates teams
type TeamCreator interface {
	Create(ctx context.Context, team *appModels.Team) error
}

// AccountCreator creates accounts together with their profile
type AccountCreator interface {
	CreateWithProfile(ctx context.Context, user *appModels.User, profile *appModels.Profile) error
}

// DefaultTeams are created on first start
var DefaultTeams = []struct {
	Name        string
	LeaderTitle string
}{
	{"Media", "Head of Media"},
	{"Design", "Head of Design"},
	{"Events", "Head of Events"},
	{"Public Relations", "Head of Public Relations"},
}

// CreateDefaultData creates the default teams and the bootstrap club leader
// if they don't exist yet
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	return Run(ctx, appRepos.NewTeamRepository(dbPool), appRepos.NewUserRepository(dbPool), cfg, lgr)
}

// Run seeds through the given repositories. Existing rows are left alone.
func Run(ctx context.Context, teams TeamCreator, accounts AccountCreator, cfg *config.Config, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (teams, club leader)...")
	var finalErr error

	for _, t := range DefaultTeams {
		leaderTitle := t.LeaderTitle
		err := teams.Create(ctx, &appModels.Team{Name: t.Name, LeaderTitle: &leaderTitle})
		switch {
		case err == nil:
			lgr.Info().Str("team", t.Name).Msg("Default team created")
		case errors.Is(err, apperrors.ErrConflict):
		default:
			lgr.Error().Err(err).Str("team", t.Name).Msg("Error creating default team")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if err := createClubLeader(ctx, accounts, cfg, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

func createClubLeader(ctx context.Context, accounts AccountCreator, cfg *config.Config, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Seed.AdminEmail))
	if email == "" || cfg.Seed.AdminPassword == "" {
		lgr.Info().Msg("No seed admin configured, skipping club leader")
		return nil
	}

	hash, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}

	user := &appModels.User{Email: email, Password: hash, IsActive: true}
	profile := &appModels.Profile{
		FullName: cfg.Seed.AdminName,
		Email:    email,
		ClubRole: domain.ClubRoleLeader,
	}

	err = accounts.CreateWithProfile(ctx, user, profile)
	switch {
	case err == nil:
		lgr.Info().Str("email", email).Msg("Bootstrap club leader created")
		return nil
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return nil
	default:
		lgr.Error().Err(err).Str("email", email).Msg("Error creating bootstrap club leader")
		return err
	}
}
