// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"errors"
	"testing"

	"github.com/Ash-crypto/cms-go/internal/auth"
	"github.com/Ash-crypto/cms-go/internal/store"
)

func TestRequireAuthenticated(t *testing.T) {
	if err := RequireAuthenticated(nil); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("nil user: got %v, want ErrUnauthenticated", err)
	}

	user := &store.User{ID: 1, Role: auth.RoleUser}
	if err := RequireAuthenticated(user); err != nil {
		t.Errorf("authenticated user: got %v, want nil", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name    string
		user    *store.User
		wantErr error
	}{
		{"nil user", nil, ErrUnauthenticated},
		{"regular user", &store.User{ID: 1, Role: auth.RoleUser}, ErrForbidden},
		{"unknown role", &store.User{ID: 1, Role: "editor"}, ErrForbidden},
		{"admin", &store.User{ID: 1, Role: auth.RoleAdmin}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireAdmin(tt.user)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("got %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
