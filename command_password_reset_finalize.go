package school

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

type FinalizePasswordResetMessage struct {
	Token      string `json:"token"`
	Password   string `json:"password"`
	OnResponse func(resp *FinalizePasswordResetResponse)
}

func (p FinalizePasswordResetMessage) Type() string { return "user.password_reset_finalize" }

type FinalizePasswordResetResponse struct {
	Email   string
	Success bool
}

// FinalizePasswordResetHandler swaps the account secret after validating the
// emailed reset token. Reset tokens are not single use; any valid token
// inside its window can finalize.
type FinalizePasswordResetHandler struct {
	repo   RepositoryManager
	tokens *TokenService
}

func NewFinalizePasswordResetHandler(repo RepositoryManager, tokens *TokenService) *FinalizePasswordResetHandler {
	return &FinalizePasswordResetHandler{
		repo:   repo,
		tokens: tokens,
	}
}

func (h *FinalizePasswordResetHandler) Execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset finalization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *FinalizePasswordResetHandler) execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if !SecretIsStrong(event.Password) {
		return ErrWeakSecret
	}

	claims, err := h.tokens.ValidateReset(event.Token)
	if err != nil {
		return err
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	if err := h.repo.Users().ResetPassword(ctx, claims.Email, hash); err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrResetFailed
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to reset password")
	}

	if event.OnResponse != nil {
		event.OnResponse(&FinalizePasswordResetResponse{Email: claims.Email, Success: true})
	}

	return nil
}
