package server

func (s *Server) initRoutes() {
	// Token issuance (or reuse of a still-valid bearer token)
	s.RegisterRouteHandler("GET "+RouteApp, ChainMiddleware(s.TokenHandler(), s.APIMiddleware()...))

	// Session diagnostics
	s.RegisterRouteHandler("POST "+RouteValidate, ChainMiddleware(s.ValidateHandler(), s.APIMiddleware()...))

	// Protected API routes (require a valid bearer token)
	s.RegisterRouteHandler("POST "+RouteAPIProtected, ChainMiddleware(s.ProtectedEchoHandler(), append(s.APIMiddleware(), s.RequireAuth())...))

	// Browser test page
	s.RegisterRouteHandler("GET "+RouteTestPage, ChainMiddleware(s.TestPageHandler(), s.HTMLMiddleware()...))
}
