package util

import (
	"regexp"
	"strings"
)

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	lowercasePattern = regexp.MustCompile(`[a-z]`)
	uppercasePattern = regexp.MustCompile(`[A-Z]`)
	digitPattern     = regexp.MustCompile(`\d`)
)

// IsValidEmail indica se o e-mail tem formato aceitável.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// PasswordCheck descreve o resultado da validação de senha.
type PasswordCheck struct {
	Valid  bool
	Reason string
}

// ValidatePassword verifica requisitos mínimos de senha.
func ValidatePassword(password string) PasswordCheck {
	if len(password) < 8 {
		return PasswordCheck{Reason: "Password must be at least 8 characters long"}
	}
	if !lowercasePattern.MatchString(password) {
		return PasswordCheck{Reason: "Password must contain at least one lowercase letter"}
	}
	if !uppercasePattern.MatchString(password) {
		return PasswordCheck{Reason: "Password must contain at least one uppercase letter"}
	}
	if !digitPattern.MatchString(password) {
		return PasswordCheck{Reason: "Password must contain at least one number"}
	}
	return PasswordCheck{Valid: true}
}

// RequireString garante string não vazia.
func RequireString(value string) bool {
	return strings.TrimSpace(value) != ""
}
