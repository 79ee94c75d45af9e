// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/Ash-crypto/cms-go/internal/middleware"
	"github.com/Ash-crypto/cms-go/internal/render"
	"github.com/Ash-crypto/cms-go/internal/service"
	"github.com/Ash-crypto/cms-go/internal/store"
)

// SessionKeyUserID is the session key for storing the authenticated user ID.
const SessionKeyUserID = "user_id"

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	authService     *service.AuthService
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		authService:     service.NewAuthService(db),
		eventService:    service.NewEventService(db),
		loginProtection: lp,
	}
}

// registerPageData builds the Data payload for the register template.
func (h *AuthHandler) registerPageData(form, fieldErrors map[string]string, actingAdmin bool) map[string]any {
	if form == nil {
		form = map[string]string{}
	}
	if fieldErrors == nil {
		fieldErrors = map[string]string{}
	}
	return map[string]any{
		"Form":     form,
		"Errors":   fieldErrors,
		"ShowRole": actingAdmin,
	}
}

// RegisterForm renders the registration page.
//
// Registration is open to anonymous visitors only while the system has no
// accounts (the bootstrap case). After that, only a signed-in admin can
// reach the form to create further accounts.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	count, err := h.queries.CountUsers(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to count users", "error", err)
		return
	}

	if count > 0 && (user == nil || !user.IsAdmin()) {
		if user != nil {
			flashWarning(w, r, h.renderer, RouteDashboard, "Only an admin can create new accounts.")
			return
		}
		flashError(w, r, h.renderer, RouteLogin, "Registration is closed. Please contact an admin.")
		return
	}

	if err := h.renderer.Render(w, r, "register", render.TemplateData{
		Title: "Register",
		User:  user,
		Data:  h.registerPageData(nil, nil, user != nil && user.IsAdmin()),
	}); err != nil {
		logAndInternalError(w, "failed to render register page", "error", err)
	}
}

// Register handles the registration form submission.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteRegister) {
		return
	}

	user := middleware.GetUser(r)
	form := map[string]string{
		"name":  r.FormValue("name"),
		"email": r.FormValue("email"),
		"role":  r.FormValue("role"),
	}

	created, err := h.authService.Register(r.Context(), service.RegisterParams{
		Name:          form["name"],
		Email:         form["email"],
		Password:      r.FormValue("password"),
		RequestedRole: form["role"],
		ActingUser:    user,
	})
	if err != nil {
		fieldErrors := map[string]string{}
		switch {
		case errors.Is(err, service.ErrMissingName):
			fieldErrors["name"] = "Name and email are required."
		case errors.Is(err, service.ErrWeakPassword):
			fieldErrors["password"] = "Password must be at least 6 characters and contain an uppercase letter, a lowercase letter, a digit and a symbol."
		case errors.Is(err, service.ErrEmailTaken):
			fieldErrors["email"] = "This email is already registered."
		case errors.Is(err, service.ErrRegistrationClosed):
			flashError(w, r, h.renderer, RouteLogin, "Registration is closed. Please contact an admin.")
			return
		default:
			logAndInternalError(w, "registration failed", "error", err)
			return
		}

		w.WriteHeader(http.StatusUnprocessableEntity)
		if err := h.renderer.Render(w, r, "register", render.TemplateData{
			Title: "Register",
			User:  user,
			Data:  h.registerPageData(form, fieldErrors, user != nil && user.IsAdmin()),
		}); err != nil {
			slog.Error("failed to render register page", "error", err)
		}
		return
	}

	slog.Info("account registered", "user_id", created.ID, "role", created.Role)

	if user != nil && user.IsAdmin() {
		flashSuccess(w, r, h.renderer, RouteDashboard, fmt.Sprintf("Account for %s created.", created.Name))
		return
	}
	flashSuccess(w, r, h.renderer, RouteLogin, "Registration successful. Please log in.")
}

// LoginForm renders the login page.
// Already-authenticated users are sent to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if userID := h.sessionManager.GetInt64(r.Context(), SessionKeyUserID); userID > 0 {
		http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "login", render.TemplateData{
		Title: "Login",
		Data: map[string]any{
			"Form":   map[string]string{},
			"Errors": map[string]string{},
		},
	}); err != nil {
		logAndInternalError(w, "failed to render login page", "error", err)
	}
}

// Login handles the login form submission. The username field accepts either
// an email address or an account name.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteLogin) {
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" || password == "" {
		flashError(w, r, h.renderer, RouteLogin, "Username and password are required.")
		return
	}

	// Check if the account is locked before touching the database
	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(username); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), store.EventLevelWarning,
				"login attempt on locked account", nil, map[string]any{"login": username})
			flashError(w, r, h.renderer, RouteLogin,
				fmt.Sprintf("Account temporarily locked. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	user, err := h.authService.Authenticate(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			logAndInternalError(w, "login failed", "error", err)
			return
		}

		_ = h.eventService.LogAuthEvent(r.Context(), store.EventLevelWarning,
			"login failed", nil, map[string]any{"login": username})

		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(username); locked {
				flashError(w, r, h.renderer, RouteLogin,
					fmt.Sprintf("Too many failed attempts. Account locked for %s.", formatDuration(lockDuration)))
				return
			}
			remaining := h.loginProtection.GetRemainingAttempts(username)
			if remaining <= 3 && remaining > 0 {
				flashError(w, r, h.renderer, RouteLogin,
					fmt.Sprintf("Invalid username/email or password. %d attempts remaining before lockout.", remaining))
				return
			}
		}

		flashError(w, r, h.renderer, RouteLogin, "Invalid username/email or password.")
		return
	}

	// Clear failed attempts on successful login
	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(username)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	h.sessionManager.Put(r.Context(), SessionKeyUserID, user.ID)

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	_ = h.eventService.LogAuthEvent(r.Context(), store.EventLevelInfo,
		"user logged in", &user.ID, map[string]any{"email": user.Email})

	flashSuccess(w, r, h.renderer, RouteDashboard, fmt.Sprintf("Welcome back, %s!", user.Name))
}

// Logout destroys the session and redirects to the home page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), SessionKeyUserID)

	if userID > 0 {
		_ = h.eventService.LogAuthEvent(r.Context(), store.EventLevelInfo,
			"user logged out", &userID, nil)
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user logged out", "user_id", userID)

	flashAndRedirect(w, r, h.renderer, RouteRoot, "You have been logged out.", "info")
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
