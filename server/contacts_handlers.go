package server

import (
	"net/http"

	"github.com/kylekyl-khan/contacts-server/directory"
)

func (s *Server) buildTree(r *http.Request) ([]*directory.TreeNode, error) {
	employees, err := s.source.ActiveEmployees(r.Context())
	if err != nil {
		return nil, err
	}
	return directory.BuildTree(employees, s.config.Directory.CompanyID, s.config.Directory.CompanyName), nil
}

// ContactsTreeHandler returns the whole company hierarchy.
func (s *Server) ContactsTreeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tree, err := s.buildTree(r)
		if err != nil {
			s.log.Error().Err(err).Msg("contacts tree failed")
			http.Error(w, "Failed to load contacts tree", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, tree)
	}
}

// ContactsSubtreeHandler returns the subtree rooted at {key}, or an empty
// object when the key does not exist.
func (s *Server) ContactsSubtreeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("key")

		tree, err := s.buildTree(r)
		if err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("contacts subtree failed")
			http.Error(w, "Failed to load contacts subtree", http.StatusInternalServerError)
			return
		}

		node := directory.FindByKey(tree, key)
		if node == nil {
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
		writeJSON(w, http.StatusOK, node)
	}
}

// ProtectedTreeHandler is the gated variant: it requires a logged-in session
// and echoes the current user next to the tree.
func (s *Server) ProtectedTreeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := s.session(r)

		user, err := s.auth.RequireUser(session)
		if err != nil {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		tree, buildErr := s.buildTree(r)
		if buildErr != nil {
			s.log.Error().Err(buildErr).Msg("protected contacts tree failed")
			http.Error(w, "Failed to load contacts tree", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"current_user": user,
			"tree":         tree,
		})
	}
}

// EmployeeHandler looks a single employee up by email.
func (s *Server) EmployeeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mail := r.URL.Query().Get("mail")
		if mail == "" {
			http.Error(w, "Missing 'mail' query parameter", http.StatusBadRequest)
			return
		}

		employee, err := s.source.EmployeeByEmail(r.Context(), mail)
		if err != nil {
			s.log.Error().Err(err).Str("mail", mail).Msg("employee lookup failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if employee == nil {
			http.Error(w, "Employee not found", http.StatusNotFound)
			return
		}

		s.log.Info().Str("mail", mail).Str("name", employee.Name).Msg("employee lookup")
		writeJSON(w, http.StatusOK, employee)
	}
}

// HealthHandler pings the employee source.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.source.Ping(r.Context()); err != nil {
			s.log.Error().Err(err).Msg("health check failed")
			http.Error(w, "Employee source unreachable", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ContactsPageHandler serves the embedded directory frontend.
func (s *Server) ContactsPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ServeStaticFile(w, r, "contacts.html")
	}
}
