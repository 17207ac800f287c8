package email

import (
	"fmt"
	"html"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// EmailService sends the notification emails of the club workflows
type EmailService interface {
	SendHourReviewEmail(toEmail, toName string, review HourReviewEmail) error
	SendDesignUpdateEmail(toEmail, toName string, update DesignUpdateEmail) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	BaseURL   string // front end URL used in links
}

// HourReviewEmail is the content of an hour-request decision email
type HourReviewEmail struct {
	ActivityTitle string
	Approved      bool
	AwardedHours  float64
	Notes         string
}

// DesignUpdateEmail is the content of a design-request status email
type DesignUpdateEmail struct {
	Title         string
	Status        string
	FeedbackNotes string
}

// Sender abstracts the SMTP dialer
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailServiceImpl implements EmailService with gomail
type EmailServiceImpl struct {
	config SMTPConfig
	sender Sender
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService. A nil sender is replaced by a
// gomail dialer built from config.
func NewEmailService(config SMTPConfig, sender Sender, logger zerolog.Logger) *EmailServiceImpl {
	if sender == nil && config.Host != "" {
		sender = gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	}
	return &EmailServiceImpl{
		config: config,
		sender: sender,
		logger: logger,
	}
}

// SendHourReviewEmail tells a member their hour request was reviewed
func (s *EmailServiceImpl) SendHourReviewEmail(toEmail, toName string, review HourReviewEmail) error {
	subject := "Your volunteer hour request was rejected"
	verdict := "was not approved"
	if review.Approved {
		subject = "Your volunteer hour request was approved"
		verdict = fmt.Sprintf("was approved for <strong>%g</strong> hours", review.AwardedHours)
	}

	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<p>Hello %s,</p>
<p>Your request for <strong>%s</strong> %s.</p>
%s
<p>You can see your hour history at <a href="%s/profile">your profile</a>.</p>
</body></html>`,
		html.EscapeString(toName),
		html.EscapeString(review.ActivityTitle),
		verdict,
		notesBlock("Reviewer notes", review.Notes),
		s.config.BaseURL,
	)

	return s.send(toEmail, subject, body)
}

// SendDesignUpdateEmail tells a requester or assignee that a design request moved
func (s *EmailServiceImpl) SendDesignUpdateEmail(toEmail, toName string, update DesignUpdateEmail) error {
	subject := fmt.Sprintf("Design request %q is now %s", update.Title, update.Status)

	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<p>Hello %s,</p>
<p>The design request <strong>%s</strong> is now <strong>%s</strong>.</p>
%s
</body></html>`,
		html.EscapeString(toName),
		html.EscapeString(update.Title),
		html.EscapeString(update.Status),
		notesBlock("Feedback", update.FeedbackNotes),
	)

	return s.send(toEmail, subject, body)
}

func notesBlock(label, notes string) string {
	if notes == "" {
		return ""
	}
	return fmt.Sprintf("<p>%s: %s</p>", label, html.EscapeString(notes))
}

func (s *EmailServiceImpl) send(toEmail, subject, htmlBody string) error {
	// Without credentials the mail is only logged (development setups)
	if s.sender == nil || s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("subject", subject).
			Msg("SMTP credentials not configured - email not sent")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.FromEmail, s.config.FromName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.sender.DialAndSend(m); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
