package school

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
)

// UserController serves the account read routes. Both routes sit behind the
// session gate; the directory additionally requires the admin role.
type UserController struct {
	Logger Logger
	repo   RepositoryManager
}

func NewUserController(repo RepositoryManager, logger Logger) *UserController {
	if logger == nil {
		logger = defLogger{}
	}
	return &UserController{
		Logger: logger,
		repo:   repo,
	}
}

// Show returns the authenticated account's own record.
func (c *UserController) Show(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, SessionContextKey)
	if !ok {
		return ctx.JSON(router.StatusUnauthorized, map[string]string{
			"message": ErrSessionMissing.Message,
		})
	}

	user, err := c.repo.Users().GetByUsername(ctx.Context(), claims.Username)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ctx.JSON(router.StatusNotFound, map[string]string{
				"message": "User Not Found!",
			})
		}
		c.Logger.Error("user lookup failed: %v", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{
			"message": "An error occurred!",
		})
	}

	return ctx.JSON(router.StatusOK, user.Public())
}

// Index returns every account, without secrets. Admin only.
func (c *UserController) Index(ctx router.Context) error {
	users, err := c.repo.Users().List(ctx.Context())
	if err != nil {
		c.Logger.Error("user list failed: %v", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]string{
			"message": "An error occurred!",
		})
	}

	public := make([]*PublicUser, len(users))
	for i, u := range users {
		public[i] = u.Public()
	}

	return ctx.JSON(router.StatusOK, public)
}
