// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "errors"

// Sentinel errors returned by the service layer. Handlers branch on these
// with errors.Is to pick the right flash message and redirect target.
var (
	// ErrWeakPassword indicates the password failed the strength policy.
	ErrWeakPassword = errors.New("password does not meet strength requirements")

	// ErrEmailTaken indicates another account already uses the email
	// (case-insensitive).
	ErrEmailTaken = errors.New("email already registered")

	// ErrRegistrationClosed indicates self-registration is not available
	// because an account already exists and the caller is not an admin.
	ErrRegistrationClosed = errors.New("registration closed")

	// ErrInvalidCredentials indicates the login/password pair did not match
	// any account. Deliberately does not reveal which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingName indicates a required name field was empty.
	ErrMissingName = errors.New("name is required")

	// ErrInvalidSalary indicates a salary value that could not be parsed
	// as a non-negative number.
	ErrInvalidSalary = errors.New("invalid salary value")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
)
