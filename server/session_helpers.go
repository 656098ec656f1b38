package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/kylekyl-khan/contacts-server/sessions"
)

// session loads the caller's session from the cookie, or starts a fresh one.
// isNew tells the caller whether a cookie still has to be issued.
func (s *Server) session(r *http.Request) (session *sessions.Session, isNew bool) {
	if id, ok := s.cookies.Read(r); ok {
		existing, err := s.sessions.Get(id)
		if err == nil {
			return existing, false
		}
		if !errors.Is(err, sessions.SessionNotFoundErr) {
			s.log.Warn().Err(err).Msg("session lookup failed")
		}
	}
	return sessions.New(s.sessionTTL()), true
}

// saveSession persists the session and, for new sessions, sets the cookie.
func (s *Server) saveSession(w http.ResponseWriter, r *http.Request, session *sessions.Session, isNew bool) {
	if err := s.sessions.Save(session); err != nil {
		s.log.Error().Err(err).Msg("session save failed")
		return
	}
	if isNew {
		s.cookies.Write(w, r, session.ID, int(s.sessionTTL().Seconds()))
	}
}

func (s *Server) sessionTTL() time.Duration {
	return time.Duration(s.config.Session.TTLMinutes) * time.Minute
}
