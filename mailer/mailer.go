// Package mailer delivers account lifecycle email. Providers are selected
// by configuration: Mailgun for hosted delivery, plain SMTP for self
// hosted relays, and a log sink for local development.
package mailer

import (
	"context"
	"fmt"
)

// Provider names accepted in configuration.
const (
	ProviderSMTP    = "smtp"
	ProviderMailgun = "mailgun"
	ProviderLog     = "log"
)

// Sender delivers a single HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Config selects and configures a provider.
type Config struct {
	Provider string
	From     string
	SMTP     SMTPConfig
	Mailgun  MailgunConfig
}

// New builds the sender for the configured provider.
func New(cfg Config) (Sender, error) {
	switch cfg.Provider {
	case ProviderSMTP:
		if err := validateSMTPConfig(cfg); err != nil {
			return nil, err
		}
		return &SMTPSender{from: cfg.From, config: cfg.SMTP}, nil
	case ProviderMailgun:
		if err := validateMailgunConfig(cfg); err != nil {
			return nil, err
		}
		return &MailgunSender{from: cfg.From, config: cfg.Mailgun}, nil
	case ProviderLog, "":
		return &LogSender{}, nil
	default:
		return nil, fmt.Errorf("unknown mail provider: %s", cfg.Provider)
	}
}
