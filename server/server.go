// Package server exposes the contacts directory and the login flow over
// HTTP. Handlers stay thin: session plumbing and response writing live here,
// the flow logic lives in authflow and the tree logic in directory.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kylekyl-khan/contacts-server/authflow"
	"github.com/kylekyl-khan/contacts-server/directory"
	"github.com/kylekyl-khan/contacts-server/internal/config"
	"github.com/kylekyl-khan/contacts-server/sessions"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "production")
	mux        *http.ServeMux
	routes     []string
	config     *config.Settings
	log        zerolog.Logger
	auth       *authflow.Service
	source     directory.Source
	sessions   sessions.Store
	cookies    *sessions.CookieCodec
	fileServer http.Handler
}

func New(cfg *config.Settings, logger zerolog.Logger, auth *authflow.Service, source directory.Source, store sessions.Store) *Server {
	s := &Server{
		env:        cfg.Server.Env,
		mux:        http.NewServeMux(),
		config:     cfg,
		log:        logger,
		auth:       auth,
		source:     source,
		sessions:   store,
		cookies:    sessions.NewCookieCodec(cfg.Session.CookieName, cfg.Session.SecretKey),
		fileServer: FileServerHandler(),
	}

	s.initRoutes()
	s.logRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	s.log.Info().Msgf("[%-19s] %s", displayMethod, path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
