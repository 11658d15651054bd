package school

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

type InitializePasswordResetMessage struct {
	Email      string `json:"email"`
	OnResponse func(resp *InitializePasswordResetResponse)
}

func (p InitializePasswordResetMessage) Type() string { return "user.password_reset" }

type InitializePasswordResetResponse struct {
	User    *User
	Success bool
}

// InitializePasswordResetHandler signs a short lived reset token and mails
// the reset link. The token is signed with the reset key, never the session
// key.
type InitializePasswordResetHandler struct {
	repo   RepositoryManager
	tokens *TokenService
	mailer Mailer
	config Config
	logger Logger
}

func NewInitializePasswordResetHandler(repo RepositoryManager, tokens *TokenService, mailer Mailer, config Config, logger Logger) *InitializePasswordResetHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &InitializePasswordResetHandler{
		repo:   repo,
		tokens: tokens,
		mailer: mailer,
		config: config,
		logger: logger,
	}
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().GetByEmail(ctx, event.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrAccountNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	token, err := h.tokens.SignReset(NewResetClaims(user))
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign reset token")
	}

	if err := h.sendResetEmail(ctx, user, token); err != nil {
		h.logger.Error("password reset failed to send email: %v", err)
		return goerrors.Wrap(err, ErrMailDelivery.Category, ErrMailDelivery.Message).
			WithTextCode(ErrMailDelivery.TextCode).
			WithCode(ErrMailDelivery.Code)
	}

	if event.OnResponse != nil {
		event.OnResponse(&InitializePasswordResetResponse{User: user, Success: true})
	}

	return nil
}

func (h *InitializePasswordResetHandler) sendResetEmail(ctx context.Context, user *User, token string) error {
	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s", h.config.GetSiteURL(), token)

	html := fmt.Sprintf(`
		<h3>Reset Password!</h3>
		<p>To reset your new password, please <a href="%s"><strong>Click Here</strong></a></p>
		<p>Or copy the link below and open in your browser: </p>
		<p>%s</p>
		<br/>
		<p>Note: The reset link will be expired in 15 minutes!</p>
		<br/>
		<p>- Thanks!</p>
	`, resetURL, resetURL)

	return h.mailer.Send(ctx, user.Email, "Reset Password!", html)
}
