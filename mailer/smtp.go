package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
)

// SMTPConfig holds the settings for a plain SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

// SMTPSender delivers mail through net/smtp with an HTML body.
type SMTPSender struct {
	from   string
	config SMTPConfig
}

var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) Send(ctx context.Context, to, subject, html string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	msg := []byte(fmt.Sprintf(
		"To: %s\r\nFrom: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		to, s.from, subject, html,
	))

	addr := fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	return nil
}

func validateSMTPConfig(cfg Config) error {
	if cfg.From == "" || cfg.SMTP.Host == "" || cfg.SMTP.Port == "" {
		return errors.New("invalid smtp configuration")
	}
	return nil
}
