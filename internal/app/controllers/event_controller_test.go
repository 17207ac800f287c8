package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/middleware"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
}

type mockEventService struct {
	mock.Mock
}

func (m *mockEventService) List(ctx context.Context, query dto.EventListQuery) ([]models.Event, error) {
	args := m.Called(ctx, query)
	events, _ := args.Get(0).([]models.Event)
	return events, args.Error(1)
}

func (m *mockEventService) Detail(ctx context.Context, actor *auth.Actor, id int64) (*dto.EventDetailResponse, error) {
	args := m.Called(ctx, actor, id)
	resp, _ := args.Get(0).(*dto.EventDetailResponse)
	return resp, args.Error(1)
}

func (m *mockEventService) Create(ctx context.Context, actor *auth.Actor, req *dto.CreateEventRequest) (*models.Event, error) {
	args := m.Called(ctx, actor, req)
	event, _ := args.Get(0).(*models.Event)
	return event, args.Error(1)
}

func (m *mockEventService) Update(ctx context.Context, actor *auth.Actor, id int64, req *dto.UpdateEventRequest) (*models.Event, error) {
	args := m.Called(ctx, actor, id, req)
	event, _ := args.Get(0).(*models.Event)
	return event, args.Error(1)
}

func (m *mockEventService) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *mockEventService) RegenerateCheckInCode(ctx context.Context, actor *auth.Actor, id int64) (*dto.CheckInCodeResponse, error) {
	args := m.Called(ctx, actor, id)
	resp, _ := args.Get(0).(*dto.CheckInCodeResponse)
	return resp, args.Error(1)
}

func (m *mockEventService) Register(ctx context.Context, actor *auth.Actor, id int64, req *dto.RegisterForEventRequest) (*dto.RegistrationResponse, error) {
	args := m.Called(ctx, actor, id, req)
	resp, _ := args.Get(0).(*dto.RegistrationResponse)
	return resp, args.Error(1)
}

func (m *mockEventService) CheckIn(ctx context.Context, actor *auth.Actor, id int64, req *dto.CheckInRequest) (*dto.CheckInResponse, error) {
	args := m.Called(ctx, actor, id, req)
	resp, _ := args.Get(0).(*dto.CheckInResponse)
	return resp, args.Error(1)
}

func (m *mockEventService) Participants(ctx context.Context, actor *auth.Actor, id int64) ([]models.EventParticipant, error) {
	args := m.Called(ctx, actor, id)
	participants, _ := args.Get(0).([]models.EventParticipant)
	return participants, args.Error(1)
}

func (m *mockEventService) ExportParticipants(ctx context.Context, actor *auth.Actor, id int64, w io.Writer) error {
	args := m.Called(ctx, actor, id, w)
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := io.WriteString(w, "full_name,email\nAda,ada@club.org\n")
	return err
}

func (m *mockEventService) FileReport(ctx context.Context, actor *auth.Actor, id int64, req *dto.EventReportRequest) (*models.EventReport, error) {
	args := m.Called(ctx, actor, id, req)
	report, _ := args.Get(0).(*models.EventReport)
	return report, args.Error(1)
}

func newEventRouter(svc *mockEventService) *gin.Engine {
	c := NewEventController(svc)
	r := gin.New()
	r.GET("/events", c.List)
	r.GET("/events/:id", c.Detail)
	r.POST("/events/:id/registrations", c.Register)
	r.POST("/events/:id/check-in", c.CheckIn)
	r.GET("/events/:id/participants", c.Participants)
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorCode {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func TestEventController_List(t *testing.T) {
	svc := &mockEventService{}
	svc.On("List", mock.Anything, dto.EventListQuery{When: "past", Category: "workshop"}).
		Return([]models.Event{{ID: 7, Title: "Intro to Go"}}, nil).Once()
	r := newEventRouter(svc)

	rec := serve(r, http.MethodGet, "/events?when=past&category=workshop", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Intro to Go")

	rec = serve(r, http.MethodGet, "/events?when=someday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestEventController_DetailRejectsBadID(t *testing.T) {
	r := newEventRouter(&mockEventService{})

	rec := serve(r, http.MethodGet, "/events/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, errorCode(t, rec))
}

func TestEventController_RegisterWithoutBody(t *testing.T) {
	svc := &mockEventService{}
	svc.On("Register", mock.Anything, mock.Anything, int64(3), &dto.RegisterForEventRequest{}).
		Return(nil, apperrors.ErrEventFull).Once()
	r := newEventRouter(svc)

	rec := serve(r, http.MethodPost, "/events/3/registrations", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, dto.ErrorCodeEventFull, errorCode(t, rec))
	svc.AssertExpectations(t)
}

func TestEventController_CheckIn(t *testing.T) {
	svc := &mockEventService{}
	svc.On("CheckIn", mock.Anything, mock.Anything, int64(5), &dto.CheckInRequest{Code: "482913"}).
		Return(&dto.CheckInResponse{Outcome: domain.OutcomeCheckedIn}, nil).Once()
	svc.On("CheckIn", mock.Anything, mock.Anything, int64(5), &dto.CheckInRequest{Code: "111111"}).
		Return(nil, apperrors.ErrInvalidCheckInCode).Once()
	svc.On("CheckIn", mock.Anything, mock.Anything, int64(5), &dto.CheckInRequest{Code: "222222"}).
		Return(nil, apperrors.ErrTooManyAttempts).Once()
	r := newEventRouter(svc)

	rec := serve(r, http.MethodPost, "/events/5/check-in", `{"code":"482913"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"outcome":"checked_in"`)

	rec = serve(r, http.MethodPost, "/events/5/check-in", `{"code":"111111"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = serve(r, http.MethodPost, "/events/5/check-in", `{"code":"222222"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = serve(r, http.MethodPost, "/events/5/check-in", `{"code":"12"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertExpectations(t)
}

func TestEventController_ParticipantsCSV(t *testing.T) {
	svc := &mockEventService{}
	svc.On("ExportParticipants", mock.Anything, mock.Anything, int64(9), mock.Anything).Return(nil).Once()
	svc.On("ExportParticipants", mock.Anything, mock.Anything, int64(10), mock.Anything).
		Return(apperrors.NewForbiddenError("team leadership required")).Once()
	r := newEventRouter(svc)

	rec := serve(r, http.MethodGet, "/events/9/participants?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "event-9-participants.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "full_name,email\n"))

	rec = serve(r, http.MethodGet, "/events/10/participants?format=csv", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "full_name")
	svc.AssertExpectations(t)
}

func TestHealthController(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	tests := []struct {
		name   string
		db     PingFunc
		cache  PingFunc
		status int
		want   dto.HealthResponse
	}{
		{"cache disabled", up, nil, http.StatusOK, dto.HealthResponse{Status: "ok", Database: "up", Redis: "disabled"}},
		{"all up", up, up, http.StatusOK, dto.HealthResponse{Status: "ok", Database: "up", Redis: "up"}},
		{"database down", down, up, http.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded", Database: "down", Redis: "up"}},
		{"cache down", up, down, http.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded", Database: "up", Redis: "down"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthController(tt.db, tt.cache).Health)

			rec := serve(r, http.MethodGet, "/health", "")
			assert.Equal(t, tt.status, rec.Code)
			var got dto.HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
