package handler

import (
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/Ash-crypto/cms-go/internal/middleware"
	"github.com/Ash-crypto/cms-go/internal/render"
	"github.com/Ash-crypto/cms-go/internal/service"
)

// DashboardHandler handles the landing and dashboard pages.
type DashboardHandler struct {
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	customerService *service.CustomerService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *DashboardHandler {
	return &DashboardHandler{
		renderer:        renderer,
		sessionManager:  sm,
		customerService: service.NewCustomerService(db),
	}
}

// Home renders the public landing page.
// Authenticated users are sent straight to the dashboard.
func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	if userID := h.sessionManager.GetInt64(r.Context(), SessionKeyUserID); userID > 0 {
		http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "home", render.TemplateData{
		Title: "Welcome",
	}); err != nil {
		logAndInternalError(w, "failed to render home page", "error", err)
	}
}

// Dashboard renders the signed-in overview page.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	count, err := h.customerService.Count(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to count customers", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "dashboard", render.TemplateData{
		Title: "Dashboard",
		User:  user,
		Data: map[string]any{
			"UserName":      user.Name,
			"UserRole":      user.Role,
			"CustomerCount": count,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render dashboard", "error", err)
	}
}
