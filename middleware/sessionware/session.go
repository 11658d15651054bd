package sessionware

import (
	"context"
	"time"

	"github.com/goliatone/go-router"
	school "github.com/goliatone/go-school"
)

// TokenManager validates session tokens and mints replacement pairs on the
// refresh path.
type TokenManager interface {
	ValidateSession(token string) (*school.SessionClaims, error)
	MintSessionPair(claims *school.SessionClaims, accessTTL, refreshTTL time.Duration) (school.TokenPair, error)
}

type Config struct {
	// Tokens is required
	Tokens TokenManager

	// ContextKey is the locals key claims are stored under
	ContextKey string

	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler

	// AccessTTL is the lifetime of access tokens minted on the refresh
	// path. It is shorter than the lifetime of a login access token.
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// ContextEnricher propagates claims to the standard Go context after a
	// successful validation.
	ContextEnricher func(c context.Context, claims *school.SessionClaims) context.Context
}

// New builds the session gate. The gate requires both session cookies, and
// walks the token through this sequence:
//
//	valid access token, verified account   -> continue
//	valid access token, unverified account -> 401
//	expired access, valid refresh          -> mint new pair, set cookies, continue
//	expired access, bad refresh            -> 403
//	anything else wrong with the token     -> 403
//
// The pair minted on refresh drops the verified claim, so the request that
// triggered the refresh goes through but the renewed session reads as
// unverified on its next visit.
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			access := ctx.Cookies(school.AccessTokenCookie)
			refresh := ctx.Cookies(school.RefreshTokenCookie)

			if access == "" || refresh == "" {
				return cfg.ErrorHandler(ctx, school.ErrSessionMissing)
			}

			claims, err := cfg.Tokens.ValidateSession(access)
			if err == nil {
				if !claims.IsVerified() {
					return cfg.ErrorHandler(ctx, school.ErrAccountUnverified)
				}
				return proceed(ctx, cfg, claims)
			}

			if !school.IsTokenExpired(err) {
				return cfg.ErrorHandler(ctx, school.ErrTokenInvalid)
			}

			refreshClaims, err := cfg.Tokens.ValidateSession(refresh)
			if err != nil {
				return cfg.ErrorHandler(ctx, school.ErrTokenInvalid)
			}

			renewed := school.RenewedClaims(refreshClaims)
			pair, err := cfg.Tokens.MintSessionPair(renewed, cfg.AccessTTL, cfg.RefreshTTL)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			school.SetSessionCookies(ctx, pair)

			return proceed(ctx, cfg, renewed)
		}
	}
}

func proceed(ctx router.Context, cfg Config, claims *school.SessionClaims) error {
	ctx.Locals(cfg.ContextKey, claims)

	if cfg.ContextEnricher != nil {
		ctx.SetContext(cfg.ContextEnricher(ctx.Context(), claims))
	}

	return cfg.SuccessHandler(ctx)
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Tokens == nil {
		panic("SESSION: middleware configuration: TokenManager is required.")
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

	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = school.RefreshedAccessTokenTTL
	}

	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = school.RefreshTokenTTL
	}

	if cfg.ContextEnricher == nil {
		cfg.ContextEnricher = func(c context.Context, claims *school.SessionClaims) context.Context {
			return school.WithClaimsContext(c, claims)
		}
	}

	return cfg
}
