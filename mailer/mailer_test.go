package mailer_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-school/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToLogSender(t *testing.T) {
	sender, err := mailer.New(mailer.Config{})
	require.NoError(t, err)
	require.IsType(t, &mailer.LogSender{}, sender)

	sender, err = mailer.New(mailer.Config{Provider: mailer.ProviderLog})
	require.NoError(t, err)
	require.IsType(t, &mailer.LogSender{}, sender)

	assert.NoError(t, sender.Send(context.Background(), "dev@example.com", "Hello", "<p>Hi</p>"))
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := mailer.New(mailer.Config{Provider: "pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pigeon")
}

func TestNewSMTPRequiresSettings(t *testing.T) {
	_, err := mailer.New(mailer.Config{Provider: mailer.ProviderSMTP})
	require.Error(t, err)

	sender, err := mailer.New(mailer.Config{
		Provider: mailer.ProviderSMTP,
		From:     "noreply@example.com",
		SMTP: mailer.SMTPConfig{
			Host:     "smtp.example.com",
			Port:     "587",
			Username: "mailer",
			Password: "secret",
		},
	})
	require.NoError(t, err)
	require.IsType(t, &mailer.SMTPSender{}, sender)
}

func TestNewMailgunRequiresSettings(t *testing.T) {
	_, err := mailer.New(mailer.Config{Provider: mailer.ProviderMailgun})
	require.Error(t, err)

	sender, err := mailer.New(mailer.Config{
		Provider: mailer.ProviderMailgun,
		From:     "noreply@example.com",
		Mailgun: mailer.MailgunConfig{
			Domain: "mg.example.com",
			APIKey: "key-123",
		},
	})
	require.NoError(t, err)
	require.IsType(t, &mailer.MailgunSender{}, sender)
}
