package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ErrNotConfigured is returned when the SendGrid client was built without an API key.
var ErrNotConfigured = errors.New("mailer: sendgrid client not configured")

// SendGridSender sends emails via the SendGrid API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	log       *slog.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendGridSender creates a new SendGrid email sender. It returns nil when
// no API key is configured so callers can fall back to the stub sender.
func NewSendGridSender(cfg SendGridConfig, log *slog.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.FromName == "" {
		cfg.FromName = "Asclepius Bookings"
	}

	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		log:       log,
	}
}

// Send sends an email via SendGrid.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if s.client == nil {
		return ErrNotConfigured
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, msg.Body)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.log.ErrorContext(ctx, "sendgrid send failed", "error", err, "to", msg.To)
		return fmt.Errorf("mailer: sendgrid send failed: %w", err)
	}

	if response.StatusCode >= 400 {
		s.log.ErrorContext(ctx, "sendgrid returned error status",
			"status", response.StatusCode, "body", response.Body, "to", msg.To)
		return fmt.Errorf("mailer: sendgrid returned status %d", response.StatusCode)
	}

	s.log.InfoContext(ctx, "email sent via sendgrid",
		"to", msg.To, "subject", msg.Subject, "status", response.StatusCode)

	return nil
}

// StubSender is a no-op sender for tests or when email delivery is disabled.
type StubSender struct {
	log *slog.Logger
}

// NewStubSender creates a stub email sender that logs but doesn't send.
func NewStubSender(log *slog.Logger) *StubSender {
	return &StubSender{log: log}
}

// Send logs the email but doesn't actually send it.
func (s *StubSender) Send(ctx context.Context, msg Message) error {
	s.log.InfoContext(ctx, "stub mailer: would send email", "to", msg.To, "subject", msg.Subject)
	return nil
}
