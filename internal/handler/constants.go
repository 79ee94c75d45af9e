// Package handler contains the HTTP handlers for the server-rendered UI.
package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteRegister is the registration route.
	RouteRegister = "/register"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteDashboard is the dashboard route.
	RouteDashboard = "/dashboard"
	// RouteCustomers is the customer list route.
	RouteCustomers = "/customers"
	// RouteCustomersAdd is the customer creation route.
	RouteCustomersAdd = "/customers/add"
	// RouteCustomerEdit is the customer edit route pattern.
	RouteCustomerEdit = "/customers/edit/{id}"
	// RouteCustomerDelete is the customer delete route pattern.
	RouteCustomerDelete = "/customers/delete/{id}"
	// RouteHealth is the health check route.
	RouteHealth = "/health"
)
