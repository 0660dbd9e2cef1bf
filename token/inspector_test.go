package token_test

import (
	"strings"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-session-service/internal/errors"
	"github.com/jrsteele09/go-session-service/token"
	"github.com/stretchr/testify/require"
)

func TestInspector_Inspect(t *testing.T) {
	signer := token.NewHMACSigner(testSecret)
	issuer := token.NewIssuer(signer)
	inspector := token.NewInspector(signer)

	issued, err := issuer.Issue()
	require.NoError(t, err)

	t.Run("valid token yields the issued claims", func(t *testing.T) {
		claims, err := inspector.Inspect(issued.Token)
		require.NoError(t, err)
		require.Equal(t, issued.Session, claims.Session)
		require.Equal(t, token.RoleUser, claims.Role)
		require.NotEmpty(t, claims.ID)
		require.True(t, claims.ExpiresAt.After(claims.IssuedAt))
	})

	t.Run("empty token is rejected", func(t *testing.T) {
		_, err := inspector.Inspect("")
		require.Error(t, err)
		require.True(t, apperrors.Is(err, apperrors.ErrInvalidToken))
	})

	t.Run("tampered token is rejected", func(t *testing.T) {
		parts := strings.Split(issued.Token, ".")
		require.Len(t, parts, 3)

		tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
		_, err := inspector.Inspect(tampered)
		require.Error(t, err)
		require.True(t, apperrors.Is(err, apperrors.ErrInvalidToken))
	})

	t.Run("token signed with a different secret is rejected", func(t *testing.T) {
		otherIssuer := token.NewIssuer(token.NewHMACSigner("some-other-secret"))
		otherIssued, err := otherIssuer.Issue()
		require.NoError(t, err)

		_, err = inspector.Inspect(otherIssued.Token)
		require.Error(t, err)
		require.True(t, apperrors.Is(err, apperrors.ErrInvalidToken))
	})
}

func TestInspector_ExpiredToken(t *testing.T) {
	signer := token.NewHMACSigner(testSecret)
	past := time.Now().Add(-48 * time.Hour)
	issuer := token.NewIssuer(signer,
		token.WithExpiry(24*time.Hour),
		token.WithNowFunc(func() time.Time { return past }),
	)

	issued, err := issuer.Issue()
	require.NoError(t, err)

	inspector := token.NewInspector(signer)
	_, err = inspector.Inspect(issued.Token)
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrTokenExpired))
}
