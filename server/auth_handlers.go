package server

import (
	"errors"
	"net/http"

	"github.com/kylekyl-khan/contacts-server/authflow"
)

// LoginHandler starts the authorization-code flow: stores a fresh CSRF state
// in the session and redirects to the provider's authorize endpoint.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, isNew := s.session(r)

		authorizeURL, err := s.auth.InitiateLogin(r.Context(), session)
		if err != nil {
			s.log.Error().Err(err).Msg("login initiation failed")
			http.Error(w, "Identity provider is not configured", http.StatusInternalServerError)
			return
		}

		s.saveSession(w, r, session, isNew)
		http.Redirect(w, r, authorizeURL, http.StatusFound)
	}
}

// OAuthCallbackHandler completes the flow: validates state, exchanges the
// code and lands the user back on the contacts page.
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		session, isNew := s.session(r)

		err := s.auth.HandleCallback(
			r.Context(),
			session,
			query.Get("code"),
			query.Get("state"),
			query.Get("error"),
			query.Get("error_description"),
		)

		// Persist any state consumption before reporting the outcome.
		s.saveSession(w, r, session, isNew)

		if err != nil {
			s.writeCallbackError(w, err)
			return
		}

		http.Redirect(w, r, RouteContactsPage, http.StatusFound)
	}
}

func (s *Server) writeCallbackError(w http.ResponseWriter, err error) {
	var denied *authflow.ProviderDeniedError
	var exchange *authflow.TokenExchangeError

	switch {
	case errors.As(err, &denied):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":             denied.Code,
			"error_description": denied.Description,
		})
	case errors.Is(err, authflow.MalformedCallbackErr):
		http.Error(w, "Missing 'code' or 'state' in callback", http.StatusBadRequest)
	case errors.Is(err, authflow.CsrfValidationErr):
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
	case errors.As(err, &exchange):
		s.log.Error().Err(err).Msg("token exchange failed")
		http.Error(w, "Failed to obtain token from identity provider", http.StatusBadGateway)
	default:
		s.log.Error().Err(err).Msg("callback failed")
		http.Error(w, "Login failed", http.StatusInternalServerError)
	}
}

// LogoutHandler drops the auth entry, the server-side session and the cookie,
// then returns to the contacts page. Logging out an anonymous session is fine.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, isNew := s.session(r)
		s.auth.Logout(session)
		if !isNew {
			if err := s.sessions.Delete(session.ID); err != nil {
				s.log.Warn().Err(err).Msg("session delete failed")
			}
			s.cookies.Clear(w, r)
		}
		http.Redirect(w, r, RouteContactsPage, http.StatusFound)
	}
}

// MeHandler reports the login state for the frontend.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := s.session(r)

		user, ok := s.auth.CurrentUser(session)
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "user": user})
	}
}
