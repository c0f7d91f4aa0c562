package validation

import (
	"strings"
	"unicode"
)

// PasswordMismatchMessage is reported on the password field when the
// confirmation differs.
const PasswordMismatchMessage = "Password fields didn't match."

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "abc12345": {},
	"letmein1": {}, "trustno1": {}, "superman": {}, "starwars": {}, "11111111": {},
	"passw0rd": {}, "monkey123": {}, "dragon123": {}, "master123": {}, "whatever": {},
}

// ValidatePassword returns every rule the password breaks. The optional
// attributes (email, username, full name) must not be too close to it.
func ValidatePassword(password string, userAttrs ...string) []string {
	var problems []string

	length := len([]rune(password))
	if length < minPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if length > maxPasswordLength {
		problems = append(problems, "This password is too long. It must contain at most 128 characters.")
	}
	if password != "" && isAllDigits(password) {
		problems = append(problems, "This password is entirely numeric.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}
	if tooSimilar(password, userAttrs) {
		problems = append(problems, "The password is too similar to your personal information.")
	}

	return problems
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func tooSimilar(password string, attrs []string) bool {
	pw := strings.ToLower(password)
	if len(pw) < 3 {
		return false
	}
	for _, attr := range attrs {
		a := strings.ToLower(strings.TrimSpace(attr))
		if local, _, found := strings.Cut(a, "@"); found {
			a = local
		}
		if len(a) < 3 {
			continue
		}
		if strings.Contains(pw, a) || strings.Contains(a, pw) {
			return true
		}
	}
	return false
}
