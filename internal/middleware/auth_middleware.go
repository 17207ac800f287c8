package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	appauth "github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/auth"
)

// Context keys set by the auth middleware
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextActor  = "actor"
)

// AuthMiddleware for authentication and actor resolution
type AuthMiddleware struct {
	jwtService   *auth.JWTService
	authzService *appauth.AuthorizationService
	logger       zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, authzService *appauth.AuthorizationService, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtService,
		authzService: authzService,
		logger:       logger,
	}
}

// JWTAuth middleware for JWT token validation. Only the principal id and
// email are taken from the token.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := requestToken(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if !m.authenticate(c, tokenString) {
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := requestToken(c)
		if ok {
			if claims, err := m.jwtService.ValidateAndExtractClaims(tokenString); err == nil {
				if userID, err := claims.Principal(); err == nil {
					c.Set(ContextUserID, userID)
					c.Set(ContextEmail, claims.Email)
				}
			}
		}
		c.Next()
	}
}

// RequireActor loads the caller's profile, team and scopes from the store.
// Accounts without a profile are refused with 403 until they complete it.
func (m *AuthMiddleware) RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		actor, err := m.authzService.ResolveActor(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrProfileNotFound) {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Profile required")
				errorDetail = errorDetail.WithDetails("Complete your profile before using this feature")
				c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
				return
			}
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextActor, actor)
		c.Next()
	}
}

// OptionalActor resolves the actor when the caller is identified and has a
// profile; otherwise the request continues anonymously
func (m *AuthMiddleware) OptionalActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := GetUserID(c); ok {
			actor, err := m.authzService.ResolveActor(c.Request.Context(), userID)
			switch {
			case err == nil:
				c.Set(ContextActor, actor)
			case !errors.Is(err, apperrors.ErrProfileNotFound):
				m.logger.Warn().Err(err).Str("userID", userID.String()).Msg("Could not resolve optional actor")
			}
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, tokenString string) bool {
	claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
	if err != nil {
		errorCode := dto.ErrorCodeInvalidToken
		errorDetails := "Invalid token"
		if errors.Is(err, auth.ErrExpiredToken) {
			errorCode = dto.ErrorCodeExpiredToken
			errorDetails = "Token has expired"
		}

		errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
		errorDetail = errorDetail.WithDetails(errorDetails)
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return false
	}

	userID, err := claims.Principal()
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed")
		errorDetail = errorDetail.WithDetails("Invalid subject")
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return false
	}

	c.Set(ContextUserID, userID)
	c.Set(ContextEmail, claims.Email)
	return true
}

// requestToken reads the bearer token from the Authorization header, or from
// the token query parameter for websocket upgrades where browsers cannot set
// headers
func requestToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		token, err := auth.ExtractBearerToken(strings.Trim(header, "\"'"))
		if err != nil {
			return "", false
		}
		return token, true
	}
	if token := c.Query("token"); token != "" {
		return token, true
	}
	return "", false
}

// GetUserID returns the authenticated principal id
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetActor returns the resolved actor, nil for anonymous requests
func GetActor(c *gin.Context) *appauth.Actor {
	v, exists := c.Get(ContextActor)
	if !exists {
		return nil
	}
	actor, _ := v.(*appauth.Actor)
	return actor
}
