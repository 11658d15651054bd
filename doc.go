// Package school provides the account and enrollment backend for a school
// management service: registration with email verification, cookie based
// session authentication, password reset, and student record management.
//
// Session lifecycle:
//   - Logging in mints an access and a refresh JWT and stores both in
//     HTTP-only cookies. Protected routes require both cookies to be present.
//   - When the access token expires but the refresh token is still valid, the
//     session middleware mints a fresh pair, resets the cookies, and lets the
//     request continue. An invalid refresh token ends the session.
//   - Tokens carry SessionClaims with a version field so older tokens keep
//     working when the claim set grows. Missing fields fall back to safe
//     defaults (unverified, regular role).
//
// Accounts:
//   - New accounts start unverified with a random verification token that is
//     mailed to the user. Verification flips the flag and clears the token in
//     a single statement, so a token can only be redeemed once.
//   - Password resets use a separate signing key and a short lived token, so
//     a leaked session key cannot forge reset links.
//
// Commands:
//   - Registration, verification, and the two password reset steps are
//     modeled as command messages with handlers that run inside repository
//     transactions. Handlers honor context cancellation and report failures
//     as categorized errors that map directly to HTTP responses.
package school
