package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"

	"github.com/Ash-crypto/cms-go/internal/middleware"
	"github.com/Ash-crypto/cms-go/internal/render"
	"github.com/Ash-crypto/cms-go/internal/service"
	"github.com/Ash-crypto/cms-go/internal/store"
)

// CustomerHandler handles customer CRUD pages.
type CustomerHandler struct {
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *CustomerHandler {
	return &CustomerHandler{
		renderer:        renderer,
		sessionManager:  sm,
		customerService: service.NewCustomerService(db),
	}
}

// List renders the customer table.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	customers, err := h.customerService.List(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list customers", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "customers_list", render.TemplateData{
		Title: "Customers",
		User:  user,
		Data: map[string]any{
			"Customers": customers,
			"IsAdmin":   user != nil && user.IsAdmin(),
		},
	}); err != nil {
		logAndInternalError(w, "failed to render customer list", "error", err)
	}
}

// customerFormData builds the Data payload for the customer form template.
func customerFormData(heading, action string, form, fieldErrors map[string]string) map[string]any {
	if form == nil {
		form = map[string]string{}
	}
	if fieldErrors == nil {
		fieldErrors = map[string]string{}
	}
	return map[string]any{
		"Heading": heading,
		"Action":  action,
		"Form":    form,
		"Errors":  fieldErrors,
	}
}

// customerToForm converts a stored customer into form values.
func customerToForm(c store.Customer) map[string]string {
	salary := ""
	if c.Salary.Valid {
		salary = strconv.FormatFloat(c.Salary.Float64, 'f', -1, 64)
	}
	return map[string]string{
		"name":    c.Name,
		"address": c.Address,
		"email":   c.Email,
		"phone":   c.Phone,
		"job":     c.Job,
		"salary":  salary,
	}
}

// AddForm renders the empty customer form.
func (h *CustomerHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "customer_form", render.TemplateData{
		Title: "Add Customer",
		User:  middleware.GetUser(r),
		Data:  customerFormData("Add Customer", RouteCustomersAdd, nil, nil),
	}); err != nil {
		logAndInternalError(w, "failed to render customer form", "error", err)
	}
}

// Add handles the customer creation form submission.
func (h *CustomerHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteCustomersAdd) {
		return
	}

	user := middleware.GetUser(r)
	form := map[string]string{
		"name":    r.FormValue("name"),
		"address": r.FormValue("address"),
		"email":   r.FormValue("email"),
		"phone":   r.FormValue("phone"),
		"job":     r.FormValue("job"),
		"salary":  r.FormValue("salary"),
	}

	customer, err := h.customerService.Create(r.Context(), middleware.GetUserIDPtr(r), service.CreateCustomerParams{
		Name:    form["name"],
		Address: form["address"],
		Email:   form["email"],
		Phone:   form["phone"],
		Job:     form["job"],
		Salary:  form["salary"],
	})
	if err != nil {
		fieldErrors, ok := customerFieldErrors(err)
		if !ok {
			logAndInternalError(w, "failed to create customer", "error", err)
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		if err := h.renderer.Render(w, r, "customer_form", render.TemplateData{
			Title: "Add Customer",
			User:  user,
			Data:  customerFormData("Add Customer", RouteCustomersAdd, form, fieldErrors),
		}); err != nil {
			slog.Error("failed to render customer form", "error", err)
		}
		return
	}

	flashSuccess(w, r, h.renderer, RouteCustomers, fmt.Sprintf("Customer %s added.", customer.Name))
}

// EditForm renders the customer form pre-filled with the stored record.
// Unknown ids get a 404.
func (h *CustomerHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	customer, err := h.customerService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to load customer", "error", err, "customer_id", id)
		return
	}

	action := fmt.Sprintf("/customers/edit/%d", id)
	if err := h.renderer.Render(w, r, "customer_form", render.TemplateData{
		Title: "Edit Customer",
		User:  middleware.GetUser(r),
		Data:  customerFormData("Edit Customer", action, customerToForm(customer), nil),
	}); err != nil {
		logAndInternalError(w, "failed to render customer form", "error", err)
	}
}

// Edit handles the customer edit form submission. Only fields present in the
// submitted form are changed; a field left out entirely keeps its stored
// value, while a present-but-empty field overwrites it.
func (h *CustomerHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteCustomers, "Invalid form data")
		return
	}

	user := middleware.GetUser(r)
	patch := service.CustomerPatch{
		Name:    formPtr(r, "name"),
		Address: formPtr(r, "address"),
		Email:   formPtr(r, "email"),
		Phone:   formPtr(r, "phone"),
		Job:     formPtr(r, "job"),
		Salary:  formPtr(r, "salary"),
	}

	customer, err := h.customerService.Update(r.Context(), middleware.GetUserIDPtr(r), id, patch)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		fieldErrors, ok := customerFieldErrors(err)
		if !ok {
			logAndInternalError(w, "failed to update customer", "error", err, "customer_id", id)
			return
		}
		form := map[string]string{
			"name":    r.FormValue("name"),
			"address": r.FormValue("address"),
			"email":   r.FormValue("email"),
			"phone":   r.FormValue("phone"),
			"job":     r.FormValue("job"),
			"salary":  r.FormValue("salary"),
		}
		action := fmt.Sprintf("/customers/edit/%d", id)
		w.WriteHeader(http.StatusUnprocessableEntity)
		if err := h.renderer.Render(w, r, "customer_form", render.TemplateData{
			Title: "Edit Customer",
			User:  user,
			Data:  customerFormData("Edit Customer", action, form, fieldErrors),
		}); err != nil {
			slog.Error("failed to render customer form", "error", err)
		}
		return
	}

	flashSuccess(w, r, h.renderer, RouteCustomers, fmt.Sprintf("Customer %s updated.", customer.Name))
}

// Delete removes a customer. Only admins may delete; everyone else is sent
// back to the dashboard with a warning rather than a hard 403.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if err := middleware.RequireAdmin(user); err != nil {
		flashWarning(w, r, h.renderer, RouteDashboard, "Admin access required.")
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.customerService.Delete(r.Context(), middleware.GetUserIDPtr(r), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to delete customer", "error", err, "customer_id", id)
		return
	}

	flashSuccess(w, r, h.renderer, RouteCustomers, "Customer deleted.")
}

// formPtr returns a pointer to the form value when the field was submitted,
// or nil when the field is absent from the form.
func formPtr(r *http.Request, key string) *string {
	if !r.PostForm.Has(key) {
		return nil
	}
	v := r.PostForm.Get(key)
	return &v
}

// customerFieldErrors maps validation errors to per-field messages.
// Returns false for errors that are not validation failures.
func customerFieldErrors(err error) (map[string]string, bool) {
	switch {
	case errors.Is(err, service.ErrMissingName):
		return map[string]string{"name": "Name is required."}, true
	case errors.Is(err, service.ErrInvalidSalary):
		return map[string]string{"salary": "Salary must be a non-negative number."}, true
	default:
		return nil, false
	}
}
