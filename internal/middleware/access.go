// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"errors"

	"github.com/Ash-crypto/cms-go/internal/auth"
	"github.com/Ash-crypto/cms-go/internal/store"
)

// Access policy errors. Handlers call the policy explicitly at the top of
// each protected action and branch on the typed result, instead of hiding
// the redirect inside route middleware.
var (
	// ErrUnauthenticated means no identity is bound to the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the identity lacks the required role. It is a soft
	// deny: callers redirect to a non-privileged view with a warning.
	ErrForbidden = errors.New("admin access required")
)

// RequireAuthenticated checks that an identity is present.
func RequireAuthenticated(user *store.User) error {
	if user == nil {
		return ErrUnauthenticated
	}
	return nil
}

// RequireAdmin checks that an identity is present and holds the admin role.
func RequireAdmin(user *store.User) error {
	if user == nil {
		return ErrUnauthenticated
	}
	if user.Role != auth.RoleAdmin {
		return ErrForbidden
	}
	return nil
}
