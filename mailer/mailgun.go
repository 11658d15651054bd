package mailer

import (
	"context"
	"errors"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunConfig holds the Mailgun API settings.
type MailgunConfig struct {
	Domain string
	APIKey string
}

// MailgunSender delivers mail through the Mailgun API.
type MailgunSender struct {
	from   string
	config MailgunConfig
}

var _ Sender = (*MailgunSender)(nil)

func (s *MailgunSender) Send(ctx context.Context, to, subject, html string) error {
	mg := mailgun.NewMailgun(s.config.Domain, s.config.APIKey)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	message := mg.NewMessage(s.from, subject, "")
	message.SetHTML(html)
	if err := message.AddRecipient(to); err != nil {
		return err
	}

	_, _, err := mg.Send(ctx, message)
	return err
}

func validateMailgunConfig(cfg Config) error {
	if cfg.From == "" || cfg.Mailgun.Domain == "" || cfg.Mailgun.APIKey == "" {
		return errors.New("invalid mailgun configuration")
	}
	return nil
}
