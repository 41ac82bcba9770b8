package mailer

import (
	"context"
	"fmt"
	"log"

	gomail "github.com/wneessen/go-mail"

	"github.com/VyankateshKedar/sparkAppBackend/internal/config"
)

// Mailer delivers outbound transactional email. Implementations are
// constructed explicitly from config and passed in; there is no package-level
// transport.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

func NewSMTPMailer(cfg *config.SMTPConfig) (*SMTPMailer, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.User),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPMailer{client: client, from: cfg.From}, nil
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject("Password Reset Request")
	msg.SetBodyString(gomail.TypeTextPlain,
		"You are receiving this because you (or someone else) requested a password reset. "+
			"Please click on the following link to reset your password: "+resetURL+". "+
			"This link will expire in 1 hour.")

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

// LogMailer logs instead of sending. Used when no SMTP host is configured.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	log.Printf("mailer (dev): password reset for %s url=%s", to, resetURL)
	return nil
}
