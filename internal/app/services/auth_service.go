package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/auth"
)

// AuthService handles registration, login and refresh-token rotation
type AuthService struct {
	userRepo    UserRepository
	tokenRepo   TokenRepository
	profileRepo ProfileRepository
	jwtService  *auth.JWTService
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo UserRepository,
	tokenRepo TokenRepository,
	profileRepo ProfileRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		profileRepo: profileRepo,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// validatePassword checks if password meets requirements
func validatePassword(password string) error {
	if len(password) < 8 {
		return apperrors.NewValidationError("password", "password must be at least 8 characters long")
	}
	if len(password) > 72 {
		return apperrors.NewValidationError("password", "password must be at most 72 bytes long")
	}

	var hasLetter, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return apperrors.NewValidationError("password", "password must contain at least one letter and one digit")
	}
	return nil
}

// Register creates an account. When a full name is supplied the member
// profile is created in the same transaction, otherwise the account stays
// profile-less until POST /profile.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, fmt.Errorf("password hashing error: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: hashedPassword,
		IsActive: true,
	}

	var profile *models.Profile
	if req.FullName != nil && strings.TrimSpace(*req.FullName) != "" {
		profile = &models.Profile{
			FullName:    strings.TrimSpace(*req.FullName),
			Email:       email,
			StudentID:   req.StudentID,
			College:     req.College,
			Major:       req.Major,
			PhoneNumber: req.PhoneNumber,
			ClubRole:    domain.ClubRoleMember,
		}
	}

	if err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			s.logger.Error().Err(err).Str("email", email).Msg("Failed to register user")
		}
		return nil, err
	}

	s.logger.Info().
		Str("userID", user.ID.String()).
		Bool("withProfile", profile != nil).
		Msg("User registered")

	return s.generateAuthResponse(ctx, user, profile != nil)
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive || !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Str("userID", user.ID.String()).Msg("Could not record last login")
	}

	hasProfile, err := s.hasProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.generateAuthResponse(ctx, user, hasProfile)
}

// RefreshToken rotates a refresh token: the presented token is revoked and a
// new pair is issued
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	userID, err := s.tokenRepo.GetTokenOwner(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) {
			// Expired tokens are revoked so they cannot be retried
			_ = s.tokenRepo.RevokeToken(ctx, refreshToken)
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	return s.generateTokenResponse(ctx, user)
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil && !errors.Is(err, apperrors.ErrTokenNotFound) {
		return err
	}
	return nil
}

// LogoutAll revokes every refresh token of a user
func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.tokenRepo.RevokeAllUserTokens(ctx, userID)
}

// Me returns the authenticated principal
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	hasProfile, err := s.hasProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.UserResponse{ID: user.ID, Email: user.Email, HasProfile: hasProfile}, nil
}

func (s *AuthService) hasProfile(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, err := s.profileRepo.GetByID(ctx, userID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrProfileNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *AuthService) generateAuthResponse(ctx context.Context, user *models.User, hasProfile bool) (*dto.AuthResponse, error) {
	token, err := s.generateTokenResponse(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: *token,
		User: dto.UserResponse{
			ID:         user.ID,
			Email:      user.Email,
			HasProfile: hasProfile,
		},
	}, nil
}

// generateTokenResponse creates a token pair and stores the refresh token
func (s *AuthService) generateTokenResponse(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	if err := s.tokenRepo.CreateToken(ctx, pair.RefreshToken, user.ID, pair.RefreshExpiresAt); err != nil {
		return nil, fmt.Errorf("token saving error: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           pair.AccessToken,
		TokenType:             "Bearer",
		ExpiresIn:             int64(pair.ExpiresIn),
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresIn: int64(pair.RefreshExpiresIn),
	}, nil
}
