package school

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeSessionMissing    = "session_missing"
	TextCodeAccountUnverified = "account_unverified"
	TextCodeTokenExpired      = "token_expired"
	TextCodeTokenInvalid      = "token_invalid"
	TextCodeAdminOnly         = "admin_only"
	TextCodeUserNotFound      = "user_not_found"
	TextCodePasswordMismatch  = "password_mismatch"
	TextCodeWeakSecret        = "weak_secret"
	TextCodeDuplicateUsername = "duplicate_username"
	TextCodeDuplicateEmail    = "duplicate_email"
	TextCodeVerificationToken = "verification_token_invalid"
	TextCodeResetExpired      = "reset_link_expired"
	TextCodeResetFailed       = "reset_failed"
	TextCodeMailDelivery      = "mail_delivery_failed"
	TextCodeAccountNotFound   = "account_not_found"
	TextCodeStudentNotFound   = "student_not_found"
	TextCodeInvalidInput      = "invalid_input"
)

// ErrSessionMissing is returned when a gated route is hit without the session
// cookie pair.
var ErrSessionMissing = errors.New("Access Denied: Please Login First!", errors.CategoryAuth).
	WithTextCode(TextCodeSessionMissing).
	WithCode(errors.CodeUnauthorized)

// ErrAccountUnverified is returned when a valid session belongs to an account
// that never confirmed its email address.
var ErrAccountUnverified = errors.New("Sorry! Your Account is not Verified! Please, check your email address and verify!", errors.CategoryAuth).
	WithTextCode(TextCodeAccountUnverified).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a session token is past its expiry.
var ErrTokenExpired = errors.New("session token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalid is returned for tokens that fail signature or shape checks.
var ErrTokenInvalid = errors.New("Access Forbidden: Your token is not valid!", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeForbidden)

// ErrAdminOnly is returned when a non admin session hits an admin route.
var ErrAdminOnly = errors.New("Access Denied: You are not an admin!", errors.CategoryAuthz).
	WithTextCode(TextCodeAdminOnly).
	WithCode(errors.CodeUnauthorized)

// ErrUserNotFound is returned when a login identifier matches no account.
var ErrUserNotFound = errors.New("Login Failed: User Not Found!", errors.CategoryAuth).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrPasswordMismatch is returned when the submitted secret does not match
// the stored hash.
var ErrPasswordMismatch = errors.New("Login Failed: Password does not match!", errors.CategoryAuth).
	WithTextCode(TextCodePasswordMismatch).
	WithCode(errors.CodeUnauthorized)

// ErrWeakSecret is returned when a candidate password fails the strength rule.
var ErrWeakSecret = errors.New("Password must contain at least 8 characters including uppercase, lowercase, number, and special character!", errors.CategoryValidation).
	WithTextCode(TextCodeWeakSecret).
	WithCode(errors.CodeForbidden)

// ErrDuplicateUsername is returned when registration collides on username.
var ErrDuplicateUsername = errors.New("Username is already taken!", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateUsername).
	WithCode(errors.CodeBadRequest)

// ErrDuplicateEmail is returned when registration collides on email.
var ErrDuplicateEmail = errors.New("Email is already used!", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(errors.CodeBadRequest)

// ErrVerificationNotFound is returned when a verification token matches no
// pending account. A second visit to an already used link lands here too.
var ErrVerificationNotFound = errors.New("Invalid verification token!", errors.CategoryNotFound).
	WithTextCode(TextCodeVerificationToken).
	WithCode(errors.CodeNotFound)

// ErrResetLinkExpired is returned when a password reset token is past its
// fifteen minute window.
var ErrResetLinkExpired = errors.New("Your reset link is already expired! Please, try again!", errors.CategoryAuth).
	WithTextCode(TextCodeResetExpired).
	WithCode(errors.CodeForbidden)

// ErrResetFailed is returned when a reset token fails for any reason other
// than expiry.
var ErrResetFailed = errors.New("Failed to reset your password!", errors.CategoryInternal).
	WithTextCode(TextCodeResetFailed).
	WithCode(errors.CodeInternal)

// ErrMailDelivery wraps provider failures while sending lifecycle email.
var ErrMailDelivery = errors.New("mail delivery failed", errors.CategoryOperation).
	WithTextCode(TextCodeMailDelivery).
	WithCode(errors.CodeInternal)

// ErrAccountNotFound is returned by the password reset initializer when the
// email matches no account.
var ErrAccountNotFound = errors.New("Account not found with this email address!", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrStudentNotFound is returned when a student lookup comes back empty.
var ErrStudentNotFound = errors.New("Student not found!", errors.CategoryNotFound).
	WithTextCode(TextCodeStudentNotFound).
	WithCode(errors.CodeNotFound)

// ErrInvalidInput is returned when a student payload is missing required
// fields.
var ErrInvalidInput = errors.New("Invalid Input: All the fields are required!", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidInput).
	WithCode(errors.CodeForbidden)

// IsTokenExpired reports whether err represents an expired session or reset
// token.
func IsTokenExpired(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode == TextCodeTokenExpired || rich.TextCode == TextCodeResetExpired
	}
	return false
}

// IsDuplicate reports whether err is one of the registration uniqueness
// violations.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode == TextCodeDuplicateUsername || rich.TextCode == TextCodeDuplicateEmail
	}
	return false
}

func errTextCode(err error) string {
	if err == nil {
		return ""
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode
	}
	return ""
}

// StatusCode maps an error to the HTTP status the handlers should send.
func StatusCode(err error) int {
	if err == nil {
		return 200
	}
	var rich *errors.Error
	if errors.As(err, &rich) && rich.Code > 0 {
		return rich.Code
	}
	return 500
}

// UserMessage extracts the message the API should surface for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var rich *errors.Error
	if errors.As(err, &rich) && rich.Message != "" {
		return rich.Message
	}
	return "An error occurred!"
}
