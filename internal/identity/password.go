package identity

import "unicode"

// PasswordScore counts how many strength criteria the password satisfies:
// length of at least 8, an uppercase letter, a digit, and a symbol.
func PasswordScore(password string) int {
	score := 0
	if len(password) >= 8 {
		score++
	}
	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	if hasUpper {
		score++
	}
	if hasDigit {
		score++
	}
	if hasSymbol {
		score++
	}
	return score
}

// IsWeakPassword reports whether the password scores below the accepted
// threshold. Weak passwords are rejected before any credential write.
func IsWeakPassword(password string) bool {
	return PasswordScore(password) < 2
}
