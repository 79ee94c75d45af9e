// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestCustomersRequireAuthentication(t *testing.T) {
	app := newTestApp(t)

	resp := app.getBare(RouteCustomers)
	app.location(resp, RouteLogin)

	resp = app.postForm(RouteCustomersAdd, url.Values{"name": {"Acme"}})
	app.location(resp, RouteLogin)
}

func TestCustomerAddAndList(t *testing.T) {
	app := newTestApp(t)
	app.registerFirstAdmin()
	app.login("admin@example.com", testPassword)

	resp := app.postForm(RouteCustomersAdd, url.Values{
		"name":   {"Acme Corp"},
		"email":  {"info@acme.test"},
		"job":    {"Engineering"},
		"salary": {"72000.50"},
	})
	app.location(resp, RouteCustomers)

	status, body := app.get(RouteCustomers)
	if status != http.StatusOK {
		t.Fatalf("GET /customers status = %d, want 200", status)
	}
	if !strings.Contains(body, "Acme Corp") {
		t.Error("customer list should contain the new customer")
	}
	if !strings.Contains(body, "72000.50") {
		t.Error("customer list should render the formatted salary")
	}
}

func TestCustomerAddValidation(t *testing.T) {
	app := newTestApp(t)
	app.registerFirstAdmin()
	app.login("admin@example.com", testPassword)

	tests := []struct {
		name string
		form url.Values
	}{
		{"missing name", url.Values{"salary": {"100"}}},
		{"invalid salary", url.Values{"name": {"Acme"}, "salary": {"abc"}}},
		{"negative salary", url.Values{"name": {"Acme"}, "salary": {"-5"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := app.postFormBody(RouteCustomersAdd, tt.form)
			if status != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422", status)
			}
		})
	}

	var count int
	if err := app.db.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		t.Fatalf("counting customers: %v", err)
	}
	if count != 0 {
		t.Errorf("customer count = %d, want 0 after rejected submissions", count)
	}
}

func TestCustomerEdit(t *testing.T) {
	app := newTestApp(t)
	app.registerFirstAdmin()
	app.login("admin@example.com", testPassword)

	resp := app.postForm(RouteCustomersAdd, url.Values{
		"name":   {"Acme Corp"},
		"job":    {"Sales"},
		"salary": {"50000"},
	})
	app.location(resp, RouteCustomers)

	status, body := app.get("/customers/edit/1")
	if status != http.StatusOK {
		t.Fatalf("GET edit form status = %d, want 200", status)
	}
	if !strings.Contains(body, "Acme Corp") {
		t.Error("edit form should be pre-filled with the customer name")
	}

	resp = app.postForm("/customers/edit/1", url.Values{
		"name":   {"Acme Inc"},
		"job":    {""},
		"salary": {""},
	})
	app.location(resp, RouteCustomers)

	var (
		name, job string
		salary    any
	)
	err := app.db.QueryRow(`SELECT name, job, salary FROM customers WHERE id = 1`).
		Scan(&name, &job, &salary)
	if err != nil {
		t.Fatalf("looking up customer: %v", err)
	}
	if name != "Acme Inc" {
		t.Errorf("name = %q, want %q", name, "Acme Inc")
	}
	if job != "" {
		t.Errorf("job = %q, want cleared", job)
	}
	if salary != nil {
		t.Errorf("salary = %v, want NULL after clearing", salary)
	}
}

func TestCustomerEditUnknownID(t *testing.T) {
	app := newTestApp(t)
	app.registerFirstAdmin()
	app.login("admin@example.com", testPassword)

	resp := app.getBare("/customers/edit/999")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET unknown customer status = %d, want 404", resp.StatusCode)
	}

	resp = app.postForm("/customers/edit/999", url.Values{"name": {"Ghost"}})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("POST unknown customer status = %d, want 404", resp.StatusCode)
	}
}

func TestCustomerEditInvalidInputLeavesRecordUntouched(t *testing.T) {
	app := newTestApp(t)
	app.registerFirstAdmin()
	app.login("admin@example.com", testPassword)

	resp := app.postForm(RouteCustomersAdd, url.Values{
		"name":   {"Acme Corp"},
		"salary": {"50000"},
	})
	app.location(resp, RouteCustomers)

	status, _ := app.postFormBody("/customers/edit/1", url.Values{
		"name":   {"Renamed"},
		"salary": {"not-a-number"},
	})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", status)
	}

	var name string
	var salary float64
	err := app.db.QueryRow(`SELECT name, salary FROM customers WHERE id = 1`).Scan(&name, &salary)
	if err != nil {
		t.Fatalf("looking up customer: %v", err)
	}
	if name != "Acme Corp" || salary != 50000 {
		t.Errorf("customer = (%q, %v), want unchanged (Acme Corp, 50000)", name, salary)
	}
}

func TestCustomerDeleteRequiresAdmin(t *testing.T) {
	app := newTestApp(t)
	app.registerFirstAdmin()
	app.login("admin@example.com", testPassword)

	// Admin creates a regular user and a customer, then hands off.
	resp := app.postForm(RouteRegister, url.Values{
		"name":     {"Bob"},
		"email":    {"bob@example.com"},
		"password": {testPassword},
		"role":     {"user"},
	})
	app.location(resp, RouteDashboard)

	resp = app.postForm(RouteCustomersAdd, url.Values{"name": {"Acme Corp"}})
	app.location(resp, RouteCustomers)

	app.logout()
	app.login("bob@example.com", testPassword)

	// Regular users are bounced to the dashboard with a warning.
	resp = app.postForm("/customers/delete/1", nil)
	app.location(resp, RouteDashboard)

	var count int
	if err := app.db.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		t.Fatalf("counting customers: %v", err)
	}
	if count != 1 {
		t.Errorf("customer count = %d, want 1 (delete should be denied)", count)
	}
}

func TestCustomerDeleteAsAdmin(t *testing.T) {
	app := newTestApp(t)
	app.registerFirstAdmin()
	app.login("admin@example.com", testPassword)

	resp := app.postForm(RouteCustomersAdd, url.Values{"name": {"Acme Corp"}})
	app.location(resp, RouteCustomers)

	resp = app.postForm("/customers/delete/1", nil)
	app.location(resp, RouteCustomers)

	var count int
	if err := app.db.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		t.Fatalf("counting customers: %v", err)
	}
	if count != 0 {
		t.Errorf("customer count = %d, want 0 after delete", count)
	}

	// Deleting again is a hard not-found.
	resp = app.postForm("/customers/delete/1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", resp.StatusCode)
	}
}
