package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-session-service/internal/config"
	apperrors "github.com/jrsteele09/go-session-service/internal/errors"
	"github.com/jrsteele09/go-session-service/token"
)

type Server struct {
	env       string // Environment (e.g., "DEV", "production")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	issuer    *token.Issuer
	inspector *token.Inspector
}

func New(config config.Config) (*Server, error) {
	secret := config.GetSecretKey()
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("[Server New] JWT_SECRET_KEY must be set: %w", apperrors.ErrMissingSecretKey)
	}

	signer := token.NewHMACSigner(secret)

	s := &Server{
		mux:       http.NewServeMux(),
		config:    config,
		issuer:    token.NewIssuer(signer, token.WithExpiry(config.GetTokenExpiry())),
		inspector: token.NewInspector(signer),
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
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
