package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	appModels "github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/config"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/auth"
)

type mockTeams struct{ mock.Mock }

func (m *mockTeams) Create(ctx context.Context, team *appModels.Team) error {
	return m.Called(ctx, team.Name).Error(0)
}

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) CreateWithProfile(ctx context.Context, user *appModels.User, profile *appModels.Profile) error {
	return m.Called(ctx, user, profile).Error(0)
}

func seedConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Seed.AdminEmail = " Leader@Club.org "
	cfg.Seed.AdminPassword = "changeme123"
	cfg.Seed.AdminName = "Club Leader"
	return cfg
}

func TestRun_CreatesTeamsAndLeader(t *testing.T) {
	teams := &mockTeams{}
	for _, team := range DefaultTeams {
		teams.On("Create", mock.Anything, team.Name).Return(nil).Once()
	}
	accounts := &mockAccounts{}
	accounts.On("CreateWithProfile", mock.Anything,
		mock.MatchedBy(func(u *appModels.User) bool {
			return u.Email == "leader@club.org" && auth.CheckPassword(u.Password, "changeme123")
		}),
		mock.MatchedBy(func(p *appModels.Profile) bool { return p.ClubRole == domain.ClubRoleLeader }),
	).Return(nil).Once()

	require.NoError(t, Run(context.Background(), teams, accounts, seedConfig(), zerolog.Nop()))
	teams.AssertExpectations(t)
	accounts.AssertExpectations(t)
}

func TestRun_IsIdempotent(t *testing.T) {
	teams := &mockTeams{}
	teams.On("Create", mock.Anything, mock.Anything).Return(apperrors.NewConflictError("exists"))
	accounts := &mockAccounts{}
	accounts.On("CreateWithProfile", mock.Anything, mock.Anything, mock.Anything).Return(apperrors.ErrEmailAlreadyExists)

	assert.NoError(t, Run(context.Background(), teams, accounts, seedConfig(), zerolog.Nop()))
}

func TestRun_SkipsLeaderWithoutCredentials(t *testing.T) {
	teams := &mockTeams{}
	teams.On("Create", mock.Anything, mock.Anything).Return(nil)
	accounts := &mockAccounts{}

	require.NoError(t, Run(context.Background(), teams, accounts, &config.Config{}, zerolog.Nop()))
	accounts.AssertNotCalled(t, "CreateWithProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_JoinsErrors(t *testing.T) {
	teams := &mockTeams{}
	teams.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
	accounts := &mockAccounts{}
	accounts.On("CreateWithProfile", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	assert.ErrorContains(t, Run(context.Background(), teams, accounts, seedConfig(), zerolog.Nop()), "connection reset")
}
