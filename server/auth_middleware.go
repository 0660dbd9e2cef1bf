package server

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-session-service/internal/errors"
	"github.com/jrsteele09/go-session-service/token"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyClaims stores the verified token claims
	ContextKeyClaims ContextKey = "claims"
)

// ClaimsFromContext returns the verified claims injected by RequireAuth.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(*token.Claims)
	return claims, ok
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Returns "" when the header is missing or malformed.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// RequireAuth is middleware that validates a Bearer session token and
// injects its claims into the request context.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, "unauthorized", "Token is missing", http.StatusUnauthorized)
				return
			}

			rawToken := bearerToken(r)
			if rawToken == "" {
				writeJSONError(w, "unauthorized", "Invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := s.inspector.Inspect(rawToken)
			if err != nil {
				log.Info().Err(err).Msg("Rejected bearer token")
				if apperrors.Is(err, apperrors.ErrTokenExpired) {
					writeJSONError(w, "unauthorized", "Token has expired", http.StatusUnauthorized)
					return
				}
				writeJSONError(w, "unauthorized", "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}
