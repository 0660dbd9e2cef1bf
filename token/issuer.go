package token

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-session-service/internal/errors"
)

// RoleUser is the role claim attached to every issued token. There is no
// authentication step, so the role is the same for all sessions.
const RoleUser = "User"

// sessionIDBytes is the number of random bytes behind a session identifier.
// Hex-encoded this yields a 64 character string.
const sessionIDBytes = 32

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// IssuedToken is the result of a single issuance: the signed JWT plus the
// raw session identifier and role embedded in it.
type IssuedToken struct {
	Token   string
	Session string
	Role    string
}

// Issuer creates signed session tokens for anonymous sessions. Each call is
// independent; the only shared state is the read-only signer, so an Issuer
// is safe for concurrent use.
type Issuer struct {
	signer  Signer
	expiry  time.Duration
	nowFunc func() time.Time
	entropy io.Reader
}

type IssuerOption func(*Issuer)

// WithExpiry overrides the token lifetime.
func WithExpiry(expiry time.Duration) IssuerOption {
	return func(i *Issuer) {
		if expiry > 0 {
			i.expiry = expiry
		}
	}
}

// WithNowFunc overrides the clock, for deterministic tests.
func WithNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

// WithEntropy overrides the random source, for tests that simulate a
// failing random number generator.
func WithEntropy(r io.Reader) IssuerOption {
	return func(i *Issuer) {
		i.entropy = r
	}
}

// NewIssuer creates an Issuer signing with the given signer.
func NewIssuer(signer Signer, options ...IssuerOption) *Issuer {
	i := &Issuer{
		signer:  signer,
		expiry:  24 * time.Hour,
		entropy: rand.Reader,
	}
	for _, opt := range options {
		opt(i)
	}
	if i.nowFunc == nil {
		i.nowFunc = NowTimeFunc
	}
	return i
}

// Issue generates a fresh session identifier, builds the claims set and
// signs it. Failures of the random source or the signer are wrapped in the
// crypto error sentinels so the request boundary can map them to a generic
// server error.
func (i *Issuer) Issue() (*IssuedToken, error) {
	session, err := i.newSessionID()
	if err != nil {
		return nil, err
	}

	now := i.nowFunc()
	claims := jwtlib.MapClaims{
		"session": session,
		"role":    RoleUser,
		"iat":     now.Unix(),
		"exp":     now.Add(i.expiry).Unix(),
		"jti":     uuid.New().String(),
	}

	signedToken, err := i.signer.Sign(claims)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrSigningFailure, "issuer: %v", err)
	}

	return &IssuedToken{
		Token:   signedToken,
		Session: session,
		Role:    RoleUser,
	}, nil
}

func (i *Issuer) newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := io.ReadFull(i.entropy, b); err != nil {
		return "", apperrors.Wrapf(apperrors.ErrRandomSource, "issuer: %v", err)
	}
	return hex.EncodeToString(b), nil
}
