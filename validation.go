package school

import (
	"strings"
	"unicode"
)

const secretSymbols = "@$!%*?&"

// ValidateSecretStrength is a validation.RuleFunc enforcing the password
// policy: at least 8 characters drawn from letters, digits and @$!%*?&,
// with at least one lowercase, one uppercase, one digit and one symbol.
func ValidateSecretStrength(value any) error {
	password, _ := value.(string)
	if !SecretIsStrong(password) {
		return ErrWeakSecret
	}
	return nil
}

// SecretIsStrong reports whether a candidate password satisfies the policy.
func SecretIsStrong(password string) bool {
	if len(password) < 8 {
		return false
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r) && r < 128:
			lower = true
		case unicode.IsUpper(r) && r < 128:
			upper = true
		case unicode.IsDigit(r) && r < 128:
			digit = true
		case strings.ContainsRune(secretSymbols, r):
			symbol = true
		default:
			return false
		}
	}

	return lower && upper && digit && symbol
}
