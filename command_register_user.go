package school

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

type RegisterUserMessage struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	UseHashid  bool
	OnResponse func(resp *RegisterUserResponse)
}

func (e RegisterUserMessage) Type() string { return "user.register" }

type RegisterUserResponse struct {
	User    *User
	Success bool
}

// RegisterUserHandler creates the account and sends the verification email.
// The account is committed before the email goes out, so a delivery failure
// leaves a registered but unverified account behind.
type RegisterUserHandler struct {
	repo   RepositoryManager
	mailer Mailer
	config Config
	logger Logger
}

func NewRegisterUserHandler(repo RepositoryManager, mailer Mailer, config Config, logger Logger) *RegisterUserHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &RegisterUserHandler{
		repo:   repo,
		mailer: mailer,
		config: config,
		logger: logger,
	}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(event.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		token, err := NewVerificationToken()
		if err != nil {
			return err
		}

		user.Username = event.Username
		user.Email = event.Email
		user.PasswordHash = hash
		user.VerificationToken = token
		user.IsVerified = false
		// clients never pick their role
		user.Role = RoleRegular

		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			if IsDuplicate(err) {
				return err
			}
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(&RegisterUserResponse{User: user, Success: true})
	}

	if err := h.sendVerificationEmail(ctx, user); err != nil {
		h.logger.Error("register user failed to send verification email: %v", err)
		return goerrors.Wrap(err, ErrMailDelivery.Category, ErrMailDelivery.Message).
			WithTextCode(ErrMailDelivery.TextCode).
			WithCode(ErrMailDelivery.Code)
	}

	return nil
}

func (h *RegisterUserHandler) sendVerificationEmail(ctx context.Context, user *User) error {
	verificationURL := fmt.Sprintf("%s/auth/verify/?token=%s", h.config.GetSiteURL(), user.VerificationToken)

	html := fmt.Sprintf(`
		<h2>Hello %s, <br />Please, verify your account!</h2>
		<p><a href="%s">Click Here</a> to verify your account!</p>
		<br />
		<p>Or, open this link in your browser: %s</p>
		<br />
		<p>- Thank you!</p>
	`, user.Username, verificationURL, verificationURL)

	return h.mailer.Send(ctx, user.Email, "Account Verification!", html)
}
