package server

import (
	"encoding/json"
	"net/http"
	"time"

	apperrors "github.com/jrsteele09/go-session-service/internal/errors"
	"github.com/jrsteele09/go-session-service/token"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)

// TokenResponse is the body returned by GET /app
type TokenResponse struct {
	Token   string `json:"token"`
	Session string `json:"session"`
	Role    string `json:"role"`
	Reused  bool   `json:"reused"`
}

// TokenHandler issues a session token. If the request carries a still-valid
// bearer token, that token is returned unchanged with Reused set instead of
// minting a new session.
func (s *Server) TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rawToken := bearerToken(r); rawToken != "" {
			claims, err := s.inspector.Inspect(rawToken)
			if err == nil {
				log.Info().Str("session", claims.Session).Msg("Valid token reused")
				writeJSON(w, http.StatusOK, TokenResponse{
					Token:   rawToken,
					Session: claims.Session,
					Role:    claims.Role,
					Reused:  true,
				})
				return
			}
			log.Info().Err(err).Msg("Invalid/expired token provided, generating new token")
		}

		issued, err := s.issuer.Issue()
		if err != nil {
			log.Err(err).Msg("Failed to issue token")
			writeJSONError(w, "server_error", "Failed to issue token", http.StatusInternalServerError)
			return
		}

		log.Info().Str("session", issued.Session).Msg("New token generated")

		writeJSON(w, http.StatusOK, TokenResponse{
			Token:   issued.Token,
			Session: issued.Session,
			Role:    issued.Role,
			Reused:  false,
		})
	}
}

// ValidateRequest is the body accepted by POST /validate
type ValidateRequest struct {
	Session    string         `json:"session"`
	Token      string         `json:"token"`
	ClientInfo map[string]any `json:"client_info"`
}

// ValidateDiagnostics summarises what the validation request contained
type ValidateDiagnostics struct {
	ClientIP        string `json:"client_ip"`
	UserAgent       string `json:"user_agent"`
	TokenProvided   bool   `json:"token_provided"`
	SessionProvided bool   `json:"session_provided"`
}

// ValidateResponse is the body returned by POST /validate
type ValidateResponse struct {
	Status          string              `json:"status"`
	SessionReceived string              `json:"session_received"`
	TokenValid      bool                `json:"token_valid"`
	Timestamp       string              `json:"timestamp"`
	Diagnostics     ValidateDiagnostics `json:"diagnostics"`
	TokenInfo       *token.Claims       `json:"token_info,omitempty"`
	TokenError      string              `json:"token_error,omitempty"`
}

// ValidateHandler verifies submitted session data and logs diagnostics
// server-side. The endpoint never fails the request itself; the report in
// the response carries the outcome.
func (s *Server) ValidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ValidateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			req = ValidateRequest{}
		}

		userAgent := r.Header.Get("User-Agent")
		if userAgent == "" {
			userAgent = "N/A"
		}

		logEvent := log.Info().
			Str("client_ip", r.RemoteAddr).
			Str("user_agent", userAgent).
			Str("session", req.Session)
		for key, value := range req.ClientInfo {
			logEvent = logEvent.Interface("client_"+key, value)
		}
		logEvent.Msg("Validation request received")

		resp := ValidateResponse{
			Status:          "validation_complete",
			SessionReceived: req.Session,
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
			Diagnostics: ValidateDiagnostics{
				ClientIP:        r.RemoteAddr,
				UserAgent:       userAgent,
				TokenProvided:   req.Token != "",
				SessionProvided: req.Session != "",
			},
		}

		if req.Token != "" {
			claims, err := s.inspector.Inspect(req.Token)
			switch {
			case err == nil:
				resp.TokenValid = true
				resp.TokenInfo = claims
				if req.Session != "" && req.Session != claims.Session {
					log.Warn().
						Str("provided", req.Session).
						Str("token_session", claims.Session).
						Msg("Session ID mismatch")
				} else {
					log.Info().Str("session", claims.Session).Str("role", claims.Role).Msg("Token is valid")
				}
			case apperrors.Is(err, apperrors.ErrTokenExpired):
				log.Info().Err(err).Msg("Token has expired")
				resp.TokenError = "Token expired"
			default:
				log.Info().Err(err).Msg("Token is invalid")
				resp.TokenError = "Invalid token"
			}
		} else {
			log.Info().Msg("No token provided in validation request")
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// ProtectedUserInfo describes the caller of the protected endpoint
type ProtectedUserInfo struct {
	Session        string `json:"session"`
	Role           string `json:"role"`
	TokenIssuedAt  string `json:"token_issued_at"`
	TokenExpiresAt string `json:"token_expires_at"`
}

// ProtectedEchoResponse is the body returned by POST /api/protected
type ProtectedEchoResponse struct {
	Message  string            `json:"message"`
	YourData map[string]any    `json:"your_data"`
	UserInfo ProtectedUserInfo `json:"user_info"`
}

// ProtectedEchoHandler echoes the posted JSON back to an authenticated
// caller together with the claims from their token. RequireAuth has already
// verified the token by the time this handler runs.
func (s *Server) ProtectedEchoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeJSONError(w, "unauthorized", "Invalid token", http.StatusUnauthorized)
			return
		}

		var data map[string]any
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			data = nil
		}

		log.Info().Str("session", claims.Session).Msg("Protected endpoint accessed")

		writeJSON(w, http.StatusOK, ProtectedEchoResponse{
			Message:  "Success! You sent authenticated data",
			YourData: data,
			UserInfo: ProtectedUserInfo{
				Session:        claims.Session,
				Role:           claims.Role,
				TokenIssuedAt:  claims.IssuedAt.UTC().Format(time.RFC3339),
				TokenExpiresAt: claims.ExpiresAt.UTC().Format(time.RFC3339),
			},
		})
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}
