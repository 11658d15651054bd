package school

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimsVersion is the "v" claim stamped into every newly minted token.
// Tokens without it were minted by older builds and get tolerant defaults:
// missing verified reads as false, missing role reads as regular.
const ClaimsVersion = 1

// SessionClaims is the payload carried by the access and refresh tokens.
// Both tokens of a pair hold an identical snapshot of the account at mint
// time.
type SessionClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	UserRole string `json:"role,omitempty"`
	Verified *bool  `json:"isVerified,omitempty"`
	Version  int    `json:"v,omitempty"`
}

// UserID returns the account ID
func (c *SessionClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Role returns the account role, defaulting to regular when the claim is
// absent.
func (c *SessionClaims) Role() UserRole {
	if c.UserRole == "" {
		return RoleRegular
	}
	return UserRole(c.UserRole)
}

// IsVerified reports whether the account had confirmed its email when the
// token was minted. An absent claim reads as unverified.
func (c *SessionClaims) IsVerified() bool {
	return c.Verified != nil && *c.Verified
}

// HasRole checks if the session carries the given role
func (c *SessionClaims) HasRole(role UserRole) bool {
	return c.Role() == role
}

// IsAdmin is a convenience check for the admin gate
func (c *SessionClaims) IsAdmin() bool {
	return c.Role() == RoleAdmin
}

// Expires returns the expiration time
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *SessionClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// NewSessionClaims builds the full claim snapshot used at login, including
// the verified flag.
func NewSessionClaims(user *User) *SessionClaims {
	verified := user.IsVerified
	return &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.ID.String(),
		},
		UID:      user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		UserRole: string(user.Role),
		Verified: &verified,
		Version:  ClaimsVersion,
	}
}

// RenewedClaims builds the reduced snapshot minted on the refresh path. The
// verified flag is intentionally dropped; a renewed session reads as
// unverified until the next full login.
func RenewedClaims(c *SessionClaims) *SessionClaims {
	return &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: c.RegisteredClaims.Subject,
		},
		UID:      c.UID,
		Username: c.Username,
		Email:    c.Email,
		UserRole: c.UserRole,
		Version:  ClaimsVersion,
	}
}

// ResetClaims is the payload of the short lived password reset token. It is
// signed with a key separate from the session key so a leaked session token
// can never reset a password.
type ResetClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Version  int    `json:"v,omitempty"`
}

// NewResetClaims builds the reset token payload for an account.
func NewResetClaims(user *User) *ResetClaims {
	return &ResetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.ID.String(),
		},
		Username: user.Username,
		Email:    user.Email,
		Version:  ClaimsVersion,
	}
}
