package school

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

type VerifyAccountMessage struct {
	Token      string `json:"token"`
	OnResponse func(resp *VerifyAccountResponse)
}

func (e VerifyAccountMessage) Type() string { return "user.verify_account" }

type VerifyAccountResponse struct {
	User    *User
	Success bool
}

// VerifyAccountHandler consumes an emailed verification token. The token is
// cleared in the same statement that flips the flag, so revisiting a used
// link reports not found.
type VerifyAccountHandler struct {
	repo RepositoryManager
}

func NewVerifyAccountHandler(repo RepositoryManager) *VerifyAccountHandler {
	return &VerifyAccountHandler{repo: repo}
}

func (h *VerifyAccountHandler) Execute(ctx context.Context, event VerifyAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerifyAccountHandler) execute(ctx context.Context, event VerifyAccountMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().MarkVerified(ctx, event.Token)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrVerificationNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to verify account")
	}

	if event.OnResponse != nil {
		event.OnResponse(&VerifyAccountResponse{User: user, Success: true})
	}

	return nil
}
