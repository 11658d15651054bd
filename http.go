package school

import (
	"time"

	"github.com/goliatone/go-router"
)

// Session cookie names. Both tokens travel as HTTP only cookies; there is no
// Authorization header lookup.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Cookie lifetimes. The access cookie expires after an hour even though the
// login access token stays valid for a day; the refresh flow papers over the
// gap by reissuing the pair.
const (
	AccessCookieMaxAge  = time.Hour
	RefreshCookieMaxAge = 7 * 24 * time.Hour
)

// SetSessionCookies writes the token pair as HTTP only cookies.
func SetSessionCookies(c router.Context, pair TokenPair) {
	setCookieToken(c, AccessTokenCookie, pair.AccessToken, AccessCookieMaxAge)
	setCookieToken(c, RefreshTokenCookie, pair.RefreshToken, RefreshCookieMaxAge)
}

// ClearSessionCookies expires both session cookies.
func ClearSessionCookies(c router.Context) {
	cookieDel(c, AccessTokenCookie)
	cookieDel(c, RefreshTokenCookie)
}

func setCookieToken(c router.Context, name, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// RegisterRoutes wires every route of the service onto the router. The
// session middleware guards the account and student surfaces; the admin
// middleware further gates the directory and student records.
func RegisterRoutes[T any](app router.Router[T], auth *AuthController, users *UserController, students *StudentController, session, admin router.MiddlewareFunc) {
	app.Get("/", auth.Index)

	app.Post("/auth/registration", auth.Register)
	app.Post("/auth/login", auth.Login)
	app.Get("/auth/logout", auth.Logout)
	app.Get("/auth/verify", auth.VerifyEmail)
	app.Post("/auth/forget-password", auth.ForgotPassword)
	app.Post("/auth/reset-password", auth.ResetPassword)

	app.Get("/user", users.Show, session)
	app.Get("/user/all", users.Index, session, admin)

	app.Get("/student", students.Index, session, admin)
	app.Get("/student/:id", students.Show, session, admin)
	app.Post("/student", students.Create, session, admin)
	app.Patch("/student/:id", students.Update, session, admin)
	app.Delete("/student/:id", students.Delete, session, admin)
}
