// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"database/sql"
	"io/fs"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Ash-crypto/cms-go/web"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("getting templates fs: %v", err)
	}

	r, err := New(Config{TemplatesFS: templatesFS, IsDev: true})
	if err != nil {
		t.Fatalf("initializing renderer: %v", err)
	}
	return r
}

func TestNewParsesAllPages(t *testing.T) {
	r := testRenderer(t)

	pages := []string{"home", "login", "register", "dashboard", "customers_list", "customer_form"}
	for _, name := range pages {
		if _, ok := r.templates[name]; !ok {
			t.Errorf("template %q not parsed", name)
		}
	}
}

func TestRender(t *testing.T) {
	r := testRenderer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/login", nil)

	err := r.Render(w, req, "login", TemplateData{
		Title: "Sign In",
		Data: map[string]any{
			"Form":   map[string]string{"username": "alice@example.com"},
			"Errors": map[string]string{},
		},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Sign In") {
		t.Error("rendered page should contain the title")
	}
	if !strings.Contains(body, "alice@example.com") {
		t.Error("rendered page should contain the form value")
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := testRenderer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)

	if err := r.Render(w, req, "no-such-page", TemplateData{}); err == nil {
		t.Error("Render() should fail for an unknown template")
	}
}

func TestFormatSalary(t *testing.T) {
	funcs := (&Renderer{}).templateFuncs()
	formatSalary := funcs["formatSalary"].(func(sql.NullFloat64) string)

	tests := []struct {
		in   sql.NullFloat64
		want string
	}{
		{sql.NullFloat64{}, ""},
		{sql.NullFloat64{Float64: 0, Valid: true}, "0.00"},
		{sql.NullFloat64{Float64: 72000.5, Valid: true}, "72000.50"},
		{sql.NullFloat64{Float64: 1234.567, Valid: true}, "1234.57"},
	}

	for _, tt := range tests {
		if got := formatSalary(tt.in); got != tt.want {
			t.Errorf("formatSalary(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
