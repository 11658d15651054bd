// Package config loads service settings from the environment, with an
// optional config.yaml for local development. Missing required settings
// fail startup.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// App is the full service configuration.
type App struct {
	v *viper.Viper

	Server      Server
	Persistence Persistence
	Auth        Auth
	Mail        Mail
	DebugMode   bool
}

// Server holds the HTTP listener settings.
type Server struct {
	Port    string
	SiteURL string
}

// Persistence holds the database settings. The getter surface matches what
// the persistence client consumes.
type Persistence struct {
	Driver      string
	DSN         string
	Debug       bool
	PingTimeout int
}

// Auth holds the token signing settings. The reset key must differ from the
// session key.
type Auth struct {
	SigningKey      string
	ResetSigningKey string
	Issuer          string
}

// Mail holds the outbound email settings.
type Mail struct {
	Provider      string
	From          string
	EmailHost     string
	EmailPort     string
	EmailUser     string
	EmailPassword string
	MailgunDomain string
	MailgunAPIKey string
}

// Load reads config.yaml when present, then lets environment variables
// override every key.
func Load() (*App, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "3000")
	v.SetDefault("persistence.driver", "sqlite")
	v.SetDefault("persistence.dsn", "file:school.db?_pragma=foreign_keys(1)")
	v.SetDefault("persistence.ping_timeout", 30)
	v.SetDefault("auth.issuer", "go-school")
	v.SetDefault("mail.provider", "log")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	app := &App{
		v: v,
		Server: Server{
			Port:    v.GetString("server.port"),
			SiteURL: v.GetString("site.url"),
		},
		Persistence: Persistence{
			Driver:      v.GetString("persistence.driver"),
			DSN:         v.GetString("persistence.dsn"),
			Debug:       v.GetBool("persistence.debug"),
			PingTimeout: v.GetInt("persistence.ping_timeout"),
		},
		Auth: Auth{
			SigningKey:      v.GetString("jwt.secret.key"),
			ResetSigningKey: v.GetString("jwt.reset.key"),
			Issuer:          v.GetString("auth.issuer"),
		},
		Mail: Mail{
			Provider:      v.GetString("mail.provider"),
			From:          v.GetString("from.email"),
			EmailHost:     v.GetString("email.host"),
			EmailPort:     v.GetString("email.port"),
			EmailUser:     v.GetString("email.user"),
			EmailPassword: v.GetString("email.password"),
			MailgunDomain: v.GetString("mailgun.domain"),
			MailgunAPIKey: v.GetString("mailgun.api.key"),
		},
		DebugMode: v.GetBool("debug"),
	}

	if err := app.Validate(); err != nil {
		return nil, err
	}

	return app, nil
}

// Validate checks every required setting is present.
func (a *App) Validate() error {
	missing := []string{}

	if a.Auth.SigningKey == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}
	if a.Auth.ResetSigningKey == "" {
		missing = append(missing, "JWT_RESET_KEY")
	}
	if a.Server.SiteURL == "" {
		missing = append(missing, "SITE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if a.Auth.SigningKey == a.Auth.ResetSigningKey {
		return fmt.Errorf("JWT_RESET_KEY must differ from JWT_SECRET_KEY")
	}

	return nil
}

// GetSigningKey returns the session token signing key.
func (a *App) GetSigningKey() string { return a.Auth.SigningKey }

// GetResetSigningKey returns the reset token signing key.
func (a *App) GetResetSigningKey() string { return a.Auth.ResetSigningKey }

// GetIssuer returns the JWT issuer.
func (a *App) GetIssuer() string { return a.Auth.Issuer }

// GetSiteURL returns the public base URL used in emailed links.
func (a *App) GetSiteURL() string { return strings.TrimRight(a.Server.SiteURL, "/") }

// GetServerPort returns the HTTP listener port.
func (a *App) GetServerPort() string { return a.Server.Port }

// GetDebug reports whether debug mode is on.
func (a *App) GetDebug() bool { return a.DebugMode }

// GetPersistence returns the database settings block.
func (a *App) GetPersistence() *Persistence { return &a.Persistence }

func (p *Persistence) GetDriver() string { return p.Driver }

func (p *Persistence) GetDSN() string { return p.DSN }

func (p *Persistence) GetServer() string { return p.DSN }

func (p *Persistence) GetDatabase() string { return p.DSN }

func (p *Persistence) GetDebug() bool { return p.Debug }

func (p *Persistence) GetPingTimeout() time.Duration {
	return time.Duration(p.PingTimeout) * time.Second
}
