package utils

import (
	"fmt"
	"time"

	mail "github.com/go-mail/mail/v2"

	"github.com/inklet/inklet/config"
)

// Mailer delivers contact-form messages. The interface exists so handlers can be
// tested without a live relay.
type Mailer interface {
	SendContactMessage(name, email, message string) error
}

// SMTPMailer sends plaintext mail through an authenticated SMTP relay with STARTTLS.
type SMTPMailer struct {
	dialer    *mail.Dialer
	from      string
	recipient string
}

// NewMailer builds an SMTPMailer from configuration. The dial timeout bounds how
// long a contact submission can block the handling goroutine.
func NewMailer(cfg config.AppConfig) *SMTPMailer {
	dialer := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	dialer.Timeout = 10 * time.Second
	dialer.StartTLSPolicy = mail.OpportunisticStartTLS

	return &SMTPMailer{
		dialer:    dialer,
		from:      cfg.SMTPFrom,
		recipient: cfg.ContactRecipient,
	}
}

// SendContactMessage relays one submitted contact form to the configured recipient.
// Each call opens a fresh connection and closes it when the message is accepted.
func (m *SMTPMailer) SendContactMessage(name, email, message string) error {
	if m.dialer.Host == "" || m.from == "" || m.recipient == "" {
		return fmt.Errorf("smtp not configured")
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.recipient)
	msg.SetHeader("Subject", fmt.Sprintf("Blog contact from %s", name))
	msg.SetBody("text/plain", fmt.Sprintf("By: %s  %s\n%s", name, email, message))

	return m.dialer.DialAndSend(msg)
}
