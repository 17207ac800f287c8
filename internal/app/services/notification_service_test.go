package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/email"
	"github.com/yigit/clubhub/internal/pkg/websocket"
)

type published struct {
	recipients []uuid.UUID
	kind       string
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
}

func (p *fakePublisher) Notify(recipients []uuid.UUID, notificationType string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, published{recipients: recipients, kind: notificationType})
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendHourReviewEmail(toEmail, toName string, review email.HourReviewEmail) error {
	return m.Called(toEmail, toName, review).Error(0)
}

func (m *mockMailer) SendDesignUpdateEmail(toEmail, toName string, update email.DesignUpdateEmail) error {
	return m.Called(toEmail, toName, update).Error(0)
}

func newNotificationHarness() (*fixture, *NotificationService, *fakePublisher, *mockMailer) {
	f := newFixture()
	publisher := &fakePublisher{}
	mailer := &mockMailer{}
	svc := NewNotificationService(publisher, mailer, memProfiles{f.store}, memTeams{f.store}, nil, f.logger)
	return f, svc, publisher, mailer
}

func TestNotificationService_SubmittedGoesToTeamLeaders(t *testing.T) {
	f, svc, publisher, _ := newNotificationHarness()
	team := f.addTeam(t, "Media")
	leader := f.addProfile(t, "leader", domain.ClubRoleMember)
	coLeader := f.addProfile(t, "co-leader", domain.ClubRoleMember)
	member := f.addProfile(t, "member", domain.ClubRoleMember)
	f.join(t, team, leader, domain.TeamRoleLeader)
	f.join(t, team, coLeader, domain.TeamRoleLeader)
	f.join(t, team, member, domain.TeamRoleMember)

	svc.HourRequestSubmitted(context.Background(), &models.HourRequest{RequesterID: coLeader, TeamID: &team})

	require.Len(t, publisher.sent, 1)
	assert.Equal(t, websocket.TypeHourRequestSubmitted, publisher.sent[0].kind)
	assert.Equal(t, []uuid.UUID{leader}, publisher.sent[0].recipients)

	svc.HourRequestSubmitted(context.Background(), &models.HourRequest{RequesterID: member})
	assert.Len(t, publisher.sent, 1, "requests without a team notify nobody")
}

func TestNotificationService_ReviewedEmailsRequester(t *testing.T) {
	f, svc, publisher, mailer := newNotificationHarness()
	member := f.addProfile(t, "member", domain.ClubRoleMember)
	hours := 4.0

	mailer.On("SendHourReviewEmail", "member@club.example", "member", email.HourReviewEmail{
		ActivityTitle: "Booth setup",
		Approved:      true,
		AwardedHours:  4,
	}).Return(errors.New("smtp down")).Once()

	svc.HourRequestReviewed(context.Background(), &models.HourRequest{
		RequesterID:   member,
		ActivityTitle: "Booth setup",
		Status:        domain.HourRequestApproved,
		AwardedHours:  &hours,
	})
	svc.Wait()

	require.Len(t, publisher.sent, 1)
	assert.Equal(t, []uuid.UUID{member}, publisher.sent[0].recipients)
	mailer.AssertExpectations(t)
}

func TestNotificationService_DesignUpdatesSkipActor(t *testing.T) {
	f, svc, publisher, mailer := newNotificationHarness()
	requester := f.addProfile(t, "requester", domain.ClubRoleMember)
	designer := f.addProfile(t, "designer", domain.ClubRoleMember)

	mailer.On("SendDesignUpdateEmail", "requester@club.example", "requester", mock.AnythingOfType("email.DesignUpdateEmail")).Return(nil).Once()

	svc.DesignRequestUpdated(context.Background(), &models.DesignRequest{
		RequesterID: requester,
		AssignedTo:  &designer,
		Title:       "Poster",
		Status:      domain.DesignAwaitingReview,
	}, designer)
	svc.Wait()

	require.Len(t, publisher.sent, 1)
	assert.Equal(t, websocket.TypeDesignRequestUpdated, publisher.sent[0].kind)
	assert.Equal(t, []uuid.UUID{requester}, publisher.sent[0].recipients)

	// the requester's own verdict emails the designer only
	mailer.On("SendDesignUpdateEmail", "designer@club.example", "designer", email.DesignUpdateEmail{
		Title:         "Poster",
		Status:        string(domain.DesignRejected),
		FeedbackNotes: "bigger logo",
	}).Return(nil).Once()

	svc.DesignRequestUpdated(context.Background(), &models.DesignRequest{
		RequesterID:   requester,
		AssignedTo:    &designer,
		Title:         "Poster",
		Status:        domain.DesignRejected,
		FeedbackNotes: ptr("bigger logo"),
	}, requester)
	svc.Wait()

	require.Len(t, publisher.sent, 2)
	assert.Equal(t, []uuid.UUID{designer}, publisher.sent[1].recipients)
	mailer.AssertExpectations(t)
}
