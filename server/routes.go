package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET /{$}", s.IndexHandler())

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.WebMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthCallback, ChainMiddleware(s.OAuthCallbackHandler(), s.WebMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.WebMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware()...))

	// CONTACTS
	s.RegisterRouteFunc("GET "+RouteContactsPage, s.ContactsPageHandler())
	s.RegisterRouteHandler("GET "+RouteContactsTree, ChainMiddleware(s.ContactsTreeHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteSubtree, ChainMiddleware(s.ContactsSubtreeHandler(), s.APIMiddleware()...))
	// Exact pattern wins over the {key} wildcard above.
	s.RegisterRouteHandler("GET "+RouteProtectedTree, ChainMiddleware(s.ProtectedTreeHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteEmployee, ChainMiddleware(s.EmployeeHandler(), s.APIMiddleware()...))

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	s.RegisterRouteHandler("GET /static/", http.StripPrefix("/static/", s.fileServer))
}

// IndexHandler sends visitors to the contacts page.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, RouteContactsPage, http.StatusFound)
	}
}
