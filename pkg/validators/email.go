// Package validators turns untrusted request input into typed values. Every
// validator either returns the value or an error describing the offending
// fields.
package validators

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
)

func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return ErrEmailInvalid
	}

	return nil
}

// NormalizeEmail lowercases and trims e. Emails are unique case-insensitively.
func NormalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
