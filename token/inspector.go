package token

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-session-service/internal/errors"
)

// Claims represents the verified contents of a session token.
type Claims struct {
	Session   string    `json:"session"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
	ID        string    `json:"jti,omitempty"`
}

// Inspector handles session token verification
type Inspector struct {
	signer  Signer
	nowFunc func() time.Time
}

type InspectorOption func(*Inspector)

// WithInspectorNowFunc overrides the clock used for expiry checks.
func WithInspectorNowFunc(now func() time.Time) InspectorOption {
	return func(i *Inspector) {
		i.nowFunc = now
	}
}

// NewInspector creates an Inspector verifying against the given signer.
func NewInspector(signer Signer, options ...InspectorOption) *Inspector {
	i := &Inspector{signer: signer}
	for _, opt := range options {
		opt(i)
	}
	if i.nowFunc == nil {
		i.nowFunc = NowTimeFunc
	}
	return i
}

// Inspect parses and verifies a raw token, returning its claims. The error
// distinguishes an expired token (ErrTokenExpired) from any other defect
// (ErrInvalidToken); both mean the token must not be trusted.
func (i *Inspector) Inspect(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, apperrors.ErrInvalidToken
	}

	parser := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwtlib.WithTimeFunc(i.nowFunc),
	)

	parsed, err := parser.Parse(rawToken, i.signer.GetVerificationKey)
	if err != nil {
		if apperrors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, apperrors.Wrapf(apperrors.ErrTokenExpired, "inspector: %v", err)
		}
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "inspector: %v", err)
	}
	if !parsed.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "inspector: error extracting claims")
	}

	session, _ := mapClaims["session"].(string)
	role, _ := mapClaims["role"].(string)
	jti, _ := mapClaims["jti"].(string)
	iat, _ := mapClaims["iat"].(float64)
	exp, _ := mapClaims["exp"].(float64)

	claims := &Claims{
		Session: session,
		Role:    role,
		ID:      jti,
	}
	if iat != 0 {
		claims.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp != 0 {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return claims, nil
}
