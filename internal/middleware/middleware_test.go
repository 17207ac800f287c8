package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/auth"
	"github.com/yigit/clubhub/internal/pkg/metrics"
	"github.com/yigit/clubhub/internal/pkg/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type profileTable map[uuid.UUID]*models.Profile

func (p profileTable) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	if profile, ok := p[id]; ok {
		return profile, nil
	}
	return nil, apperrors.ErrProfileNotFound
}

type noMemberships struct{}

func (noMemberships) GetMembership(context.Context, uuid.UUID) (*models.TeamMembership, error) {
	return nil, nil
}

func newJWT(exp time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "middleware-secret",
		AccessTokenExp:  exp,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "clubhub.test",
	})
}

func bearer(t *testing.T, jwt *auth.JWTService, userID uuid.UUID) string {
	t.Helper()
	pair, err := jwt.GenerateTokenPair(userID, "member@club.org")
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body
}

func TestAuthMiddleware(t *testing.T) {
	withProfile, withoutProfile := uuid.New(), uuid.New()
	jwt := newJWT(time.Minute)
	authz := appauth.NewAuthorizationService(profileTable{
		withProfile: {ID: withProfile, FullName: "Ada", ClubRole: domain.ClubRoleDeputy},
	}, noMemberships{})
	m := NewAuthMiddleware(jwt, authz, zerolog.Nop())

	r := gin.New()
	r.GET("/actor", m.JWTAuth(), m.RequireActor(), func(c *gin.Context) {
		actor := GetActor(c)
		c.JSON(http.StatusOK, gin.H{"club": actor.Scopes.ClubLeadership})
	})
	r.GET("/optional", m.OptionalAuth(), m.OptionalActor(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"anonymous": GetActor(c) == nil})
	})

	serve := func(path, authHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing token", func(t *testing.T) {
		rec := serve("/actor", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrorCodeUnauthorized, decodeError(t, rec).Error.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := serve("/actor", "Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrorCodeInvalidToken, decodeError(t, rec).Error.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		rec := serve("/actor", bearer(t, newJWT(-time.Minute), withProfile))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrorCodeExpiredToken, decodeError(t, rec).Error.Code)
	})

	t.Run("scopes come from the store", func(t *testing.T) {
		rec := serve("/actor", bearer(t, jwt, withProfile))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"club":true}`, rec.Body.String())
	})

	t.Run("token in query", func(t *testing.T) {
		pair, err := jwt.GenerateTokenPair(withProfile, "member@club.org")
		require.NoError(t, err)
		rec := serve("/actor?token="+pair.AccessToken, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("profile required", func(t *testing.T) {
		rec := serve("/actor", bearer(t, jwt, withoutProfile))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, dto.ErrorCodeForbidden, decodeError(t, rec).Error.Code)
	})

	t.Run("optional auth", func(t *testing.T) {
		assert.JSONEq(t, `{"anonymous":true}`, serve("/optional", "").Body.String())
		assert.JSONEq(t, `{"anonymous":true}`, serve("/optional", "Bearer junk").Body.String())
		assert.JSONEq(t, `{"anonymous":true}`, serve("/optional", bearer(t, jwt, withoutProfile)).Body.String())
		assert.JSONEq(t, `{"anonymous":false}`, serve("/optional", bearer(t, jwt, withProfile)).Body.String())
	})
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
		field  string
	}{
		{"validation carries field", apperrors.NewValidationError("awardedHours", "awardedHours must be greater than 0"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "awardedHours"},
		{"forbidden", apperrors.NewForbiddenError("not your team"), http.StatusForbidden, dto.ErrorCodeForbidden, ""},
		{"not found", fmt.Errorf("load: %w", apperrors.ErrEventNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound, ""},
		{"wrong code", apperrors.ErrInvalidCheckInCode, http.StatusUnprocessableEntity, dto.ErrorCodeInvalidCheckInCode, ""},
		{"claimed twice", apperrors.ErrInvalidTransition, http.StatusConflict, dto.ErrorCodeInvalidTransition, ""},
		{"full", apperrors.ErrEventFull, http.StatusConflict, dto.ErrorCodeEventFull, ""},
		{"profile exists", apperrors.ErrProfileAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, ""},
		{"throttled", apperrors.ErrTooManyAttempts, http.StatusTooManyRequests, dto.ErrorCodeTooManyAttempts, ""},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, ""},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.field, body.Error.Field)
		})
	}
}

func TestHandleAPIError_HidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, errors.New("pq: connection refused"))
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

type bindTarget struct {
	Code  string  `json:"code" binding:"required,checkincode"`
	Hours float64 `json:"hours" binding:"omitempty,halfhours"`
}

func TestBindJSON(t *testing.T) {
	require.NoError(t, RegisterValidators())

	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var body bindTarget
		if !BindJSON(c, &body) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	post := func(payload string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, post(`{"code":"482913","hours":1.5}`).Code)

	rec := post(`{"code":"12","hours":1.5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, dto.ErrorCodeValidationFailed, body.Error.Code)
	assert.Equal(t, "code", body.Error.Field)

	rec = post(`{"code":"482913","hours":1.2}`)
	assert.Equal(t, "hours", decodeError(t, rec).Error.Field)

	rec = post(`{"code":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrorCodeBadRequest, decodeError(t, rec).Error.Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(ratelimit.NewIPLimiter(0.001, 2)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestMetrics(t *testing.T) {
	reg := metrics.NewRegistry(prometheus.NewRegistry())
	r := gin.New()
	r.Use(Metrics(reg))
	r.GET("/events/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/events/1", "/events/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(reg.HTTPRequestsTotal.WithLabelValues("/events/:id", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.HTTPRequestsTotal.WithLabelValues("unmatched", "GET", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.HTTPRequestsInFlight))
}

func TestRequestLogger_EchoesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}
