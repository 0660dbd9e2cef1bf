package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Token Routes
	RouteApp      = "/app"
	RouteValidate = "/validate"

	// API Routes
	RouteAPIProtected = "/api/protected"

	// Test Routes
	RouteTestPage = "/test"
)
