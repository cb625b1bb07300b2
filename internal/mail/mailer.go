// Package mail sends contact-form notifications to the company inbox.
package mail

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"github.com/AhemdNada/alx-company/internal/domain"
)

// Notifier delivers a notification about a newly received contact message.
type Notifier interface {
	NotifyContact(ctx context.Context, contact *domain.ContactMessage) error
}

// SMTPConfig holds the settings for the outbound SMTP connection.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	To       string
}

// Mailer sends notifications over SMTP.
type Mailer struct {
	cfg SMTPConfig
}

// NewMailer builds a Mailer from the given SMTP settings.
func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// NotifyContact emails the company inbox about a new contact message. The
// sender address is the authenticated SMTP user; the visitor's address goes
// into Reply-To so staff can answer directly.
func (m *Mailer) NotifyContact(ctx context.Context, contact *domain.ContactMessage) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.User); err != nil {
		return fmt.Errorf("failed to set mail sender: %w", err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return fmt.Errorf("failed to set mail recipient: %w", err)
	}
	if err := msg.ReplyTo(contact.Email); err != nil {
		return fmt.Errorf("failed to set reply-to: %w", err)
	}
	msg.Subject(fmt.Sprintf("New contact message: %s", contact.Subject))
	msg.SetBodyString(gomail.TypeTextHTML, renderContactBody(contact))

	client, err := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.User),
		gomail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send contact notification: %w", err)
	}

	slog.Info("Contact notification sent", "contact_id", contact.ID, "to", m.cfg.To)
	return nil
}

func renderContactBody(contact *domain.ContactMessage) string {
	return fmt.Sprintf(`<h2>New contact message</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Subject:</strong> %s</p>
<p><strong>Message:</strong></p>
<p>%s</p>
<p><em>Received at %s</em></p>`,
		html.EscapeString(contact.Name),
		html.EscapeString(contact.Email),
		html.EscapeString(contact.Subject),
		html.EscapeString(contact.Message),
		contact.CreatedAt.Format("2006-01-02 15:04:05"),
	)
}
