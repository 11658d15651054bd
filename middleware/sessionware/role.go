package sessionware

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	school "github.com/goliatone/go-school"
)

// RequireRole gates a route on the role carried by the session claims. It
// expects the session gate to have run first; a missing session fails
// closed.
func RequireRole(role school.UserRole, config ...Config) router.MiddlewareFunc {
	cfg := roleConfig(config...)
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			claims, ok := school.GetRouterClaims(ctx, cfg.ContextKey)
			if !ok {
				return cfg.ErrorHandler(ctx, school.ErrSessionMissing)
			}

			if !claims.HasRole(role) {
				return cfg.ErrorHandler(ctx, roleError(role))
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

// RequireAdmin gates a route on the admin role.
func RequireAdmin(config ...Config) router.MiddlewareFunc {
	return RequireRole(school.RoleAdmin, config...)
}

func roleError(role school.UserRole) error {
	if role == school.RoleAdmin {
		return school.ErrAdminOnly
	}
	return goerrors.New("Access Denied: insufficient role!", goerrors.CategoryAuthz).
		WithCode(goerrors.CodeUnauthorized).
		WithMetadata(map[string]any{
			"required_role": string(role),
		})
}

// roleConfig resolves only the pieces of Config the role gate needs, so it
// can run without a TokenManager.
func roleConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = school.SessionContextKey
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			return c.JSON(school.StatusCode(err), map[string]string{
				"message": school.UserMessage(err),
			})
		}
	}

	return cfg
}
