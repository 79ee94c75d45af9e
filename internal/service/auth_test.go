// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Ash-crypto/cms-go/internal/auth"
	"github.com/Ash-crypto/cms-go/internal/store"
)

const testPassword = "Str0ng!pass"

func TestRegister_FirstUserBecomesAdmin(t *testing.T) {
	svc := NewAuthService(testDB(t))
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterParams{
		Name:          "Alice",
		Email:         "alice@example.com",
		Password:      testPassword,
		RequestedRole: "user", // Requested role is ignored for the first account
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != auth.RoleAdmin {
		t.Errorf("role = %q; want admin", user.Role)
	}
}

func TestRegister_ClosedAfterFirstUser(t *testing.T) {
	svc := NewAuthService(testDB(t))
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterParams{
		Name: "Alice", Email: "alice@example.com", Password: testPassword,
	}); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	_, err := svc.Register(ctx, RegisterParams{
		Name: "Bob", Email: "bob@example.com", Password: testPassword,
	})
	if !errors.Is(err, ErrRegistrationClosed) {
		t.Errorf("got %v; want ErrRegistrationClosed", err)
	}

	// The closed gate wins over input validation: a locked-out visitor is
	// not walked through form errors.
	_, err = svc.Register(ctx, RegisterParams{
		Name: "", Email: "", Password: "weak",
	})
	if !errors.Is(err, ErrRegistrationClosed) {
		t.Errorf("got %v; want ErrRegistrationClosed for invalid input while closed", err)
	}
}

func TestRegister_AdminCreatesUsers(t *testing.T) {
	svc := NewAuthService(testDB(t))
	ctx := context.Background()

	admin, err := svc.Register(ctx, RegisterParams{
		Name: "Alice", Email: "alice@example.com", Password: testPassword,
	})
	if err != nil {
		t.Fatalf("first Register: %v", err)
	}

	tests := []struct {
		name          string
		requestedRole string
		wantRole      string
	}{
		{"default role", "", auth.RoleUser},
		{"explicit user", auth.RoleUser, auth.RoleUser},
		{"explicit admin", auth.RoleAdmin, auth.RoleAdmin},
		{"bogus role falls back", "superuser", auth.RoleUser},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Register(ctx, RegisterParams{
				Name:          "User",
				Email:         string(rune('b'+i)) + "@example.com",
				Password:      testPassword,
				RequestedRole: tt.requestedRole,
				ActingUser:    &admin,
			})
			if err != nil {
				t.Fatalf("Register: %v", err)
			}
			if user.Role != tt.wantRole {
				t.Errorf("role = %q; want %q", user.Role, tt.wantRole)
			}
		})
	}
}

func TestRegister_NonAdminCannotCreateUsers(t *testing.T) {
	svc := NewAuthService(testDB(t))
	ctx := context.Background()

	admin, err := svc.Register(ctx, RegisterParams{
		Name: "Alice", Email: "alice@example.com", Password: testPassword,
	})
	if err != nil {
		t.Fatalf("first Register: %v", err)
	}

	regular, err := svc.Register(ctx, RegisterParams{
		Name: "Bob", Email: "bob@example.com", Password: testPassword,
		ActingUser: &admin,
	})
	if err != nil {
		t.Fatalf("second Register: %v", err)
	}

	_, err = svc.Register(ctx, RegisterParams{
		Name: "Carol", Email: "carol@example.com", Password: testPassword,
		ActingUser: &regular,
	})
	if !errors.Is(err, ErrRegistrationClosed) {
		t.Errorf("got %v; want ErrRegistrationClosed", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := NewAuthService(testDB(t))
	ctx := context.Background()

	tests := []struct {
		name    string
		params  RegisterParams
		wantErr error
	}{
		{"missing name", RegisterParams{Email: "a@example.com", Password: testPassword}, ErrMissingName},
		{"blank name", RegisterParams{Name: "   ", Email: "a@example.com", Password: testPassword}, ErrMissingName},
		{"missing email", RegisterParams{Name: "Alice", Password: testPassword}, ErrMissingName},
		{"too short", RegisterParams{Name: "Alice", Email: "a@example.com", Password: "A1!a"}, ErrWeakPassword},
		{"no uppercase", RegisterParams{Name: "Alice", Email: "a@example.com", Password: "str0ng!pass"}, ErrWeakPassword},
		{"no digit", RegisterParams{Name: "Alice", Email: "a@example.com", Password: "Strong!pass"}, ErrWeakPassword},
		{"no symbol", RegisterParams{Name: "Alice", Email: "a@example.com", Password: "Str0ngpass"}, ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.params); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v; want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegister_EmailTakenCaseInsensitive(t *testing.T) {
	svc := NewAuthService(testDB(t))
	ctx := context.Background()

	admin, err := svc.Register(ctx, RegisterParams{
		Name: "Alice", Email: "alice@example.com", Password: testPassword,
	})
	if err != nil {
		t.Fatalf("first Register: %v", err)
	}

	_, err = svc.Register(ctx, RegisterParams{
		Name: "Imposter", Email: "ALICE@Example.COM", Password: testPassword,
		ActingUser: &admin,
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("got %v; want ErrEmailTaken", err)
	}
}

func TestRegister_StoresLowercaseEmail(t *testing.T) {
	svc := NewAuthService(testDB(t))

	user, err := svc.Register(context.Background(), RegisterParams{
		Name: "Alice", Email: "  Alice@Example.COM  ", Password: testPassword,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q; want alice@example.com", user.Email)
	}
}

func TestAuthenticate(t *testing.T) {
	db := testDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterParams{
		Name: "Alice", Email: "alice@example.com", Password: testPassword,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name  string
		login string
	}{
		{"by email", "alice@example.com"},
		{"by email mixed case", "Alice@EXAMPLE.com"},
		{"by name", "Alice"},
		{"by name lowercase", "alice"},
		{"with surrounding space", "  alice@example.com  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Authenticate(ctx, tt.login, testPassword)
			if err != nil {
				t.Fatalf("Authenticate(%q): %v", tt.login, err)
			}
			if user.ID != created.ID {
				t.Errorf("got user %d; want %d", user.ID, created.ID)
			}
		})
	}
}

func TestAuthenticate_Failures(t *testing.T) {
	svc := NewAuthService(testDB(t))
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterParams{
		Name: "Alice", Email: "alice@example.com", Password: testPassword,
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name     string
		login    string
		password string
	}{
		{"wrong password", "alice@example.com", "Wr0ng!pass"},
		{"unknown user", "nobody@example.com", testPassword},
		{"empty password", "alice@example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Authenticate(ctx, tt.login, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("got %v; want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestAuthenticate_RecordsLastLogin(t *testing.T) {
	db := testDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterParams{
		Name: "Alice", Email: "alice@example.com", Password: testPassword,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "alice@example.com", testPassword); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	got, err := store.New(db).GetUserByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if !got.LastLoginAt.Valid {
		t.Error("expected last login time to be recorded")
	}
}
