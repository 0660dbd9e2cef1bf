package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-session-service/internal/config"
	"github.com/stretchr/testify/require"
)

func TestTokenConfig(t *testing.T) {
	t.Run("secret key comes from the environment", func(t *testing.T) {
		t.Setenv("JWT_SECRET_KEY", "env-secret")
		require.Equal(t, "env-secret", config.Token{}.GetSecretKey())
	})

	t.Run("missing secret key is empty", func(t *testing.T) {
		t.Setenv("JWT_SECRET_KEY", "")
		require.Equal(t, "", config.Token{}.GetSecretKey())
	})

	t.Run("default expiry is 24 hours", func(t *testing.T) {
		t.Setenv("TOKEN_EXPIRY_HOURS", "")
		require.Equal(t, 24*time.Hour, config.Token{}.GetTokenExpiry())
	})

	t.Run("expiry can be overridden", func(t *testing.T) {
		t.Setenv("TOKEN_EXPIRY_HOURS", "2")
		require.Equal(t, 2*time.Hour, config.Token{}.GetTokenExpiry())
	})

	t.Run("invalid expiry falls back to the default", func(t *testing.T) {
		t.Setenv("TOKEN_EXPIRY_HOURS", "soon")
		require.Equal(t, 24*time.Hour, config.Token{}.GetTokenExpiry())
	})
}
