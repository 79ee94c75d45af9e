// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// PasswordSymbols is the set of symbols a password must draw from.
const PasswordSymbols = `!@#$%^&*(),.?":{}|<>`

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// IsValidRole reports whether role is one of the defined user roles.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// ValidPassword reports whether pw satisfies the password strength rule:
// at least MinPasswordLength characters with at least one uppercase letter,
// one lowercase letter, one digit and one symbol from PasswordSymbols.
func ValidPassword(pw string) bool {
	if utf8.RuneCountInString(pw) < MinPasswordLength {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSymbol
}
