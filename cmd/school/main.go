package main

import (
	"context"
	"database/sql"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-router"
	school "github.com/goliatone/go-school"
	"github.com/goliatone/go-school/config"
	"github.com/goliatone/go-school/mailer"
	"github.com/goliatone/go-school/middleware/sessionware"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	level := glog.Info
	if cfg.GetDebug() {
		level = glog.Trace
	}

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(level),
		glog.WithName("school"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	ctx := context.Background()

	db, err := withPersistence(ctx, cfg, lgr)
	if err != nil {
		log.Fatal(err)
	}

	repo := school.NewRepositoryManager(db)
	repo.MustValidate()

	sender, err := mailer.New(mailer.Config{
		Provider: cfg.Mail.Provider,
		From:     cfg.Mail.From,
		SMTP: mailer.SMTPConfig{
			Host:     cfg.Mail.EmailHost,
			Port:     cfg.Mail.EmailPort,
			Username: cfg.Mail.EmailUser,
			Password: cfg.Mail.EmailPassword,
		},
		Mailgun: mailer.MailgunConfig{
			Domain: cfg.Mail.MailgunDomain,
			APIKey: cfg.Mail.MailgunAPIKey,
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	tokens := school.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		[]byte(cfg.GetResetSigningKey()),
		cfg.GetIssuer(),
		lgr.GetLogger("tokens"),
	)

	authCtrl := school.NewAuthController(repo, tokens, sender, cfg, lgr.GetLogger("auth"))
	userCtrl := school.NewUserController(repo, lgr.GetLogger("users"))
	studentCtrl := school.NewStudentController(repo, lgr.GetLogger("students"))

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	srv.Router().WithLogger(lgr.GetLogger("router"))

	session := sessionware.New(sessionware.Config{
		Tokens: tokens,
	})
	admin := sessionware.RequireAdmin()

	school.RegisterRoutes(srv.Router(), authCtrl, userCtrl, studentCtrl, session, admin)

	go func() {
		if err := srv.Serve(":" + cfg.GetServerPort()); err != nil {
			log.Fatal(err)
		}
	}()

	WaitExitSignal()
}

func withPersistence(ctx context.Context, cfg *config.App, lgr *glog.BaseLogger) (*bun.DB, error) {
	db, err := sql.Open(sqliteshim.ShimName, cfg.GetPersistence().GetDSN())
	if err != nil {
		return nil, err
	}

	persistence.RegisterModel((*school.User)(nil))
	persistence.RegisterModel((*school.Student)(nil))

	client, err := persistence.New(cfg.GetPersistence(), db, sqlitedialect.New())
	if err != nil {
		return nil, err
	}

	client.SetLogger(lgr.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(school.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return nil, err
	}

	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.ValidateDialects(ctx); err != nil {
		return nil, err
	}

	if err := client.Migrate(ctx); err != nil {
		return nil, err
	}

	return client.DB(), nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
