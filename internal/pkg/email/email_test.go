package email

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func testConfig() SMTPConfig {
	return SMTPConfig{Host: "smtp.test", Port: 587, Username: "u", Password: "p", FromName: "Club", FromEmail: "club@test", BaseURL: "https://club.test"}
}

func TestSendHourReviewEmail(t *testing.T) {
	sender := &fakeSender{}
	svc := NewEmailService(testConfig(), sender, zerolog.Nop())

	err := svc.SendHourReviewEmail("member@test", "Ayşe", HourReviewEmail{ActivityTitle: "<b>Booth</b>", Approved: true, AwardedHours: 4})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	assert.Equal(t, []string{"member@test"}, sender.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Your volunteer hour request was approved"}, sender.sent[0].GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = sender.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "<b>Booth</b>")
}

func TestSend_WithoutCredentialsOnlyLogs(t *testing.T) {
	cfg := testConfig()
	cfg.Password = ""
	sender := &fakeSender{}
	svc := NewEmailService(cfg, sender, zerolog.Nop())

	require.NoError(t, svc.SendDesignUpdateEmail("x@test", "X", DesignUpdateEmail{Title: "Poster", Status: "completed"}))
	assert.Empty(t, sender.sent)
}

func TestSend_PropagatesFailure(t *testing.T) {
	svc := NewEmailService(testConfig(), &fakeSender{err: errors.New("connection refused")}, zerolog.Nop())
	err := svc.SendDesignUpdateEmail("x@test", "X", DesignUpdateEmail{Title: "Poster", Status: "rejected", FeedbackNotes: "too dark"})
	assert.ErrorContains(t, err, "connection refused")
}
