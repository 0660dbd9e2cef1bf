package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/jrsteele09/go-session-service/internal/config"
	apperrors "github.com/jrsteele09/go-session-service/internal/errors"
	"github.com/jrsteele09/go-session-service/server"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

var hexSessionRegexp = regexp.MustCompile(`^[0-9a-f]{64}$`)

// testConfig provides a deterministic configuration without touching the
// process environment
type testConfig struct {
	config.EnvVars
	config.Cors
	secret string
}

func (c testConfig) GetSecretKey() string          { return c.secret }
func (c testConfig) GetTokenExpiry() time.Duration { return 24 * time.Hour }

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	s, err := server.New(testConfig{secret: testSecret})
	require.NoError(t, err)
	return s
}

func doJSON(t *testing.T, s *server.Server, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestServer_New(t *testing.T) {
	t.Run("fails without a secret key", func(t *testing.T) {
		_, err := server.New(testConfig{secret: ""})
		require.Error(t, err)
		require.True(t, apperrors.Is(err, apperrors.ErrMissingSecretKey))
	})

	t.Run("fails with a whitespace secret key", func(t *testing.T) {
		_, err := server.New(testConfig{secret: "   "})
		require.Error(t, err)
		require.True(t, apperrors.Is(err, apperrors.ErrMissingSecretKey))
	})

	t.Run("succeeds with a secret key", func(t *testing.T) {
		_, err := server.New(testConfig{secret: testSecret})
		require.NoError(t, err)
	})
}

func TestTokenHandler(t *testing.T) {
	s := newTestServer(t)

	t.Run("issues a fresh token", func(t *testing.T) {
		rec, body := doJSON(t, s, httptest.NewRequest("GET", server.RouteApp, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		require.NotEmpty(t, body["token"])
		require.Regexp(t, hexSessionRegexp, body["session"])
		require.Equal(t, "User", body["role"])
		require.Equal(t, false, body["reused"])
	})

	t.Run("two calls produce different sessions", func(t *testing.T) {
		_, first := doJSON(t, s, httptest.NewRequest("GET", server.RouteApp, nil))
		_, second := doJSON(t, s, httptest.NewRequest("GET", server.RouteApp, nil))
		require.NotEqual(t, first["session"], second["session"])
	})

	t.Run("reuses a valid bearer token", func(t *testing.T) {
		_, issued := doJSON(t, s, httptest.NewRequest("GET", server.RouteApp, nil))

		req := httptest.NewRequest("GET", server.RouteApp, nil)
		req.Header.Set("Authorization", "Bearer "+issued["token"].(string))

		rec, body := doJSON(t, s, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, issued["token"], body["token"])
		require.Equal(t, issued["session"], body["session"])
		require.Equal(t, true, body["reused"])
	})

	t.Run("issues a fresh token for a garbage bearer token", func(t *testing.T) {
		req := httptest.NewRequest("GET", server.RouteApp, nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")

		rec, body := doJSON(t, s, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, false, body["reused"])
		require.Regexp(t, hexSessionRegexp, body["session"])
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other, err := server.New(testConfig{secret: "some-other-secret"})
		require.NoError(t, err)
		_, foreign := doJSON(t, other, httptest.NewRequest("GET", server.RouteApp, nil))

		req := httptest.NewRequest("GET", server.RouteApp, nil)
		req.Header.Set("Authorization", "Bearer "+foreign["token"].(string))

		_, body := doJSON(t, s, req)
		require.Equal(t, false, body["reused"])
		require.NotEqual(t, foreign["token"], body["token"])
	})
}

func TestValidateHandler(t *testing.T) {
	s := newTestServer(t)
	_, issued := doJSON(t, s, httptest.NewRequest("GET", server.RouteApp, nil))

	postValidate := func(t *testing.T, payload map[string]any) (*httptest.ResponseRecorder, map[string]any) {
		t.Helper()
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		req := httptest.NewRequest("POST", server.RouteValidate, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		return doJSON(t, s, req)
	}

	t.Run("valid token", func(t *testing.T) {
		rec, body := postValidate(t, map[string]any{
			"session": issued["session"],
			"token":   issued["token"],
			"client_info": map[string]any{
				"browser": "go-test",
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "validation_complete", body["status"])
		require.Equal(t, issued["session"], body["session_received"])
		require.Equal(t, true, body["token_valid"])

		tokenInfo, ok := body["token_info"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, issued["session"], tokenInfo["session"])
		require.Equal(t, "User", tokenInfo["role"])

		diagnostics, ok := body["diagnostics"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, true, diagnostics["token_provided"])
		require.Equal(t, true, diagnostics["session_provided"])
	})

	t.Run("invalid token", func(t *testing.T) {
		rec, body := postValidate(t, map[string]any{
			"session": issued["session"],
			"token":   "not-a-jwt",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, false, body["token_valid"])
		require.Equal(t, "Invalid token", body["token_error"])
	})

	t.Run("no token provided", func(t *testing.T) {
		rec, body := postValidate(t, map[string]any{"session": "abc"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, false, body["token_valid"])

		diagnostics, ok := body["diagnostics"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, false, diagnostics["token_provided"])
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", server.RouteValidate, nil)
		rec, body := doJSON(t, s, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "validation_complete", body["status"])
	})
}

func TestProtectedEchoHandler(t *testing.T) {
	s := newTestServer(t)
	_, issued := doJSON(t, s, httptest.NewRequest("GET", server.RouteApp, nil))

	postProtected := func(t *testing.T, authorization string) (*httptest.ResponseRecorder, map[string]any) {
		t.Helper()
		raw, err := json.Marshal(map[string]any{"message": "hello"})
		require.NoError(t, err)
		req := httptest.NewRequest("POST", server.RouteAPIProtected, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		return doJSON(t, s, req)
	}

	t.Run("missing token", func(t *testing.T) {
		rec, body := postProtected(t, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "unauthorized", body["error"])
		require.Equal(t, "Token is missing", body["error_description"])
	})

	t.Run("malformed authorization header", func(t *testing.T) {
		rec, body := postProtected(t, "Bearer")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Invalid token format", body["error_description"])
	})

	t.Run("invalid token", func(t *testing.T) {
		rec, body := postProtected(t, "Bearer not-a-jwt")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Invalid token", body["error_description"])
	})

	t.Run("valid token echoes data with user info", func(t *testing.T) {
		rec, body := postProtected(t, "Bearer "+issued["token"].(string))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Success! You sent authenticated data", body["message"])

		yourData, ok := body["your_data"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "hello", yourData["message"])

		userInfo, ok := body["user_info"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, issued["session"], userInfo["session"])
		require.Equal(t, "User", userInfo["role"])
		require.NotEmpty(t, userInfo["token_issued_at"])
		require.NotEmpty(t, userInfo["token_expires_at"])
	})
}

func TestTestPageHandler(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", server.RouteTestPage, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "/api/protected")
}
