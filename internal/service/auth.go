// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Ash-crypto/cms-go/internal/auth"
	"github.com/Ash-crypto/cms-go/internal/store"
)

// AuthService implements account registration and authentication.
type AuthService struct {
	queries *store.Queries
	events  *EventService
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *sql.DB) *AuthService {
	return &AuthService{
		queries: store.New(db),
		events:  NewEventService(db),
	}
}

// RegisterParams holds the input for a registration attempt.
type RegisterParams struct {
	Name     string
	Email    string
	Password string

	// RequestedRole is honored only when ActingUser is an admin.
	RequestedRole string

	// ActingUser is the authenticated user performing the registration,
	// or nil for anonymous self-registration.
	ActingUser *store.User
}

// Register creates a new account.
//
// The very first account in the system always becomes an admin, regardless
// of the requested role. Once any account exists, registration is closed to
// anonymous visitors; only an authenticated admin may create further
// accounts, and only an admin's role request is honored.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (store.User, error) {
	// Registration gating runs before input validation: a closed gate is
	// reported even when the submitted form is invalid.
	count, err := s.queries.CountUsers(ctx)
	if err != nil {
		return store.User{}, fmt.Errorf("counting users: %w", err)
	}

	role := auth.RoleUser
	switch {
	case count == 0:
		// Bootstrap: the first account is always the admin.
		role = auth.RoleAdmin
	case p.ActingUser != nil && p.ActingUser.IsAdmin():
		if auth.IsValidRole(p.RequestedRole) {
			role = p.RequestedRole
		}
	default:
		return store.User{}, ErrRegistrationClosed
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		return store.User{}, ErrMissingName
	}

	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" {
		return store.User{}, fmt.Errorf("%w: email", ErrMissingName)
	}

	if !auth.ValidPassword(p.Password) {
		return store.User{}, ErrWeakPassword
	}

	if _, err := s.queries.GetUserByEmail(ctx, email); err == nil {
		return store.User{}, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return store.User{}, fmt.Errorf("checking email: %w", err)
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return store.User{}, fmt.Errorf("creating user: %w", err)
	}

	_ = s.events.LogAuthEvent(ctx, store.EventLevelInfo, "account registered", &user.ID,
		map[string]any{"email": user.Email, "role": user.Role})

	return user, nil
}

// Authenticate verifies a login/password pair and returns the matching user.
// The login matches either the account email or the account name, both
// case-insensitively. Returns ErrInvalidCredentials on any mismatch.
func (s *AuthService) Authenticate(ctx context.Context, login, password string) (store.User, error) {
	login = strings.TrimSpace(login)

	user, err := s.queries.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.User{}, ErrInvalidCredentials
		}
		return store.User{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return store.User{}, ErrInvalidCredentials
	}

	// Transparently upgrade hashes created with older parameters.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now(),
				ID:           user.ID,
			}); err != nil {
				slog.Warn("failed to upgrade password hash", "user_id", user.ID, "error", err)
			}
		}
	}

	if err := s.queries.UpdateUserLastLogin(ctx, time.Now(), user.ID); err != nil {
		slog.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	return user, nil
}
