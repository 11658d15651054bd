// Package sessionware implements the cookie based session gate. It reads
// the access and refresh token cookies, transparently reissues the pair
// when the access token has expired but the refresh token is still good,
// and exposes a role gate for admin routes.
package sessionware
