package handler

import (
	"database/sql"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/Ash-crypto/cms-go/internal/middleware"
	"github.com/Ash-crypto/cms-go/internal/render"
	"github.com/Ash-crypto/cms-go/web"
)

// testDB creates an in-memory SQLite database with the required schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE COLLATE NOCASE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_login_at DATETIME
		);

		CREATE TABLE customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			job TEXT NOT NULL DEFAULT '',
			salary REAL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL DEFAULT 'info',
			category TEXT NOT NULL DEFAULT 'system',
			message TEXT NOT NULL,
			user_id INTEGER,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// testSessionManager creates a session manager for testing (in-memory store).
func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	return sm
}

// testRenderer creates a renderer backed by the embedded templates.
func testRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("getting templates fs: %v", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("initializing renderer: %v", err)
	}
	return renderer
}

// testApp wires the handlers into a router the way main does (minus CSRF
// and rate limiting, which have their own tests) and runs it on a test server.
type testApp struct {
	t      *testing.T
	server *httptest.Server
	db     *sql.DB

	// client follows redirects; bare does not. Both share a cookie jar.
	client *http.Client
	bare   *http.Client
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := testDB(t)
	sm := testSessionManager(t)
	renderer := testRenderer(t, sm)

	authHandler := NewAuthHandler(db, renderer, sm, nil)
	dashboardHandler := NewDashboardHandler(db, renderer, sm)
	customerHandler := NewCustomerHandler(db, renderer, sm)
	healthHandler := NewHealthHandler(db, sm)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)

	r.Get(RouteHealth, healthHandler.Health)
	r.Get(RouteRoot, dashboardHandler.Home)

	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalLoadUser(sm, db))
		r.Get(RouteLogin, authHandler.LoginForm)
		r.Post(RouteLogin, authHandler.Login)
		r.Get(RouteLogout, authHandler.Logout)
		r.Post(RouteLogout, authHandler.Logout)
		r.Get(RouteRegister, authHandler.RegisterForm)
		r.Post(RouteRegister, authHandler.Register)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sm))
		r.Use(middleware.LoadUser(sm, db))
		r.Get(RouteDashboard, dashboardHandler.Dashboard)
		r.Get(RouteCustomers, customerHandler.List)
		r.Get(RouteCustomersAdd, customerHandler.AddForm)
		r.Post(RouteCustomersAdd, customerHandler.Add)
		r.Get(RouteCustomerEdit, customerHandler.EditForm)
		r.Post(RouteCustomerEdit, customerHandler.Edit)
		r.Post(RouteCustomerDelete, customerHandler.Delete)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("creating cookie jar: %v", err)
	}

	return &testApp{
		t:      t,
		server: server,
		db:     db,
		client: &http.Client{Jar: jar},
		bare: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// get performs a GET following redirects and returns the final status and body.
func (a *testApp) get(path string) (int, string) {
	a.t.Helper()

	resp, err := a.client.Get(a.server.URL + path)
	if err != nil {
		a.t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		a.t.Fatalf("reading body: %v", err)
	}
	return resp.StatusCode, string(body)
}

// getBare performs a GET without following redirects.
func (a *testApp) getBare(path string) *http.Response {
	a.t.Helper()

	req, err := http.NewRequest(http.MethodGet, a.server.URL+path, nil)
	if err != nil {
		a.t.Fatalf("building request: %v", err)
	}
	resp, err := a.bare.Do(req)
	if err != nil {
		a.t.Fatalf("GET %s: %v", path, err)
	}
	_ = resp.Body.Close()
	return resp
}

// postForm posts a form without following redirects.
func (a *testApp) postForm(path string, form url.Values) *http.Response {
	a.t.Helper()

	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		a.t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.bare.Do(req)
	if err != nil {
		a.t.Fatalf("POST %s: %v", path, err)
	}
	_ = resp.Body.Close()
	return resp
}

// postFormBody posts a form without following redirects and returns the
// status and response body (for re-rendered validation failures).
func (a *testApp) postFormBody(path string, form url.Values) (int, string) {
	a.t.Helper()

	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		a.t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.bare.Do(req)
	if err != nil {
		a.t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		a.t.Fatalf("reading body: %v", err)
	}
	return resp.StatusCode, string(body)
}

// location asserts the response is a 303 redirect to want.
func (a *testApp) location(resp *http.Response, want string) {
	a.t.Helper()

	if resp.StatusCode != http.StatusSeeOther {
		a.t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != want {
		a.t.Fatalf("redirect = %q, want %q", got, want)
	}
}

const testPassword = "Str0ng!pass"

// registerFirstAdmin registers the bootstrap admin account.
func (a *testApp) registerFirstAdmin() {
	a.t.Helper()

	resp := a.postForm(RouteRegister, url.Values{
		"name":     {"Admin"},
		"email":    {"admin@example.com"},
		"password": {testPassword},
	})
	a.location(resp, RouteLogin)
}

// login signs in and asserts the redirect to the dashboard.
func (a *testApp) login(username, password string) {
	a.t.Helper()

	resp := a.postForm(RouteLogin, url.Values{
		"username": {username},
		"password": {password},
	})
	a.location(resp, RouteDashboard)
}

// logout signs the current session out.
func (a *testApp) logout() {
	a.t.Helper()

	resp := a.postForm(RouteLogout, nil)
	a.location(resp, RouteRoot)
}
