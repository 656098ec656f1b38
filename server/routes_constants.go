package server

const (
	RouteAuthLogin    = "/auth/login"
	RouteAuthCallback = "/auth/callback"
	RouteAuthLogout   = "/auth/logout"
	RouteAuthMe       = "/auth/me"

	RouteContactsPage  = "/contacts"
	RouteContactsTree  = "/contacts/tree"
	RouteSubtree       = "/contacts/tree/{key}"
	RouteProtectedTree = "/contacts/tree/protected-example"
	RouteEmployee      = "/contacts/employee"

	RouteHealth = "/health"
)
