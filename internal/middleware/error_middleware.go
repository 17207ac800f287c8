package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/logger"
)

// HandleAPIError maps application errors to HTTP responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)

	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		if custom.Message != "" {
			detail.Message = custom.Message
		}
		if field, ok := custom.Details["field"].(string); ok {
			detail = detail.WithField(field)
		}
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Unhandled error")
		detail.Message = "Something went wrong, please try again"
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	switch {
	// Validation
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Bad request")
	case errors.Is(err, apperrors.ErrInvalidCheckInCode):
		return http.StatusUnprocessableEntity, dto.NewErrorDetail(dto.ErrorCodeInvalidCheckInCode, "Invalid check-in code")

	// Authentication
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenRevoked):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token not found")

	// Authorization
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")

	// Not found
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrProfileNotFound,
		apperrors.ErrTeamNotFound,
		apperrors.ErrEventNotFound,
		apperrors.ErrHourRequestNotFound,
		apperrors.ErrDesignRequestNotFound,
		apperrors.ErrGalleryImageNotFound,
		apperrors.ErrContactMessageMissing):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")

	// Conflicts
	case errors.Is(err, apperrors.ErrEventFull):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeEventFull, "No seats available")
	case errors.Is(err, apperrors.ErrNotRegistered):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeNotRegistered, "You are not registered for this event")
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeInvalidTransition, "Invalid status transition")
	case errors.Is(err, apperrors.ErrAlreadyReviewed):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeInvalidTransition, "Request has already been reviewed")
	case apperrors.Is(err, apperrors.ErrEmailAlreadyExists,
		apperrors.ErrProfileAlreadyExists,
		apperrors.ErrAlreadyRegistered,
		apperrors.ErrAlreadyInTeam):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, "Conflict")

	// Throttling
	case errors.Is(err, apperrors.ErrTooManyAttempts):
		return http.StatusTooManyRequests, dto.NewErrorDetail(dto.ErrorCodeTooManyAttempts, "Too many attempts, try again later")

	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
