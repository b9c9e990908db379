package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/chessturo/SpotifyInsights/csrf"
	"github.com/chessturo/SpotifyInsights/internal/config"
	"github.com/chessturo/SpotifyInsights/sessions"
	"github.com/chessturo/SpotifyInsights/spotify"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config

	sessions    *sessions.Manager
	stateGuard  *csrf.Guard
	oauthConfig *oauth2.Config
	tokenClient *spotify.TokenClient
	api         *spotify.Client
}

func New(cfg config.Config, sessionManager *sessions.Manager, stateGuard *csrf.Guard, tokenClient *spotify.TokenClient, api *spotify.Client) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		config:      cfg,
		sessions:    sessionManager,
		stateGuard:  stateGuard,
		oauthConfig: spotify.NewOAuthConfig(cfg),
		tokenClient: tokenClient,
		api:         api,
	}
	s.env = cfg.GetEnv()

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
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
