package config

import (
	"strconv"
	"time"
)

const (
	secretKeyEnvVar   = "JWT_SECRET_KEY"
	tokenExpiryEnvVar = "TOKEN_EXPIRY_HOURS"
)

type TokenConfig interface {
	GetSecretKey() string
	GetTokenExpiry() time.Duration
}

type Token struct{}

var _ TokenConfig = Token{}

// GetSecretKey returns the HMAC signing secret. An empty value is a fatal
// configuration error and must be rejected at startup, before any request
// is served. The value must never be logged.
func (Token) GetSecretKey() string {
	return GetEnv(secretKeyEnvVar, "")
}

// GetTokenExpiry returns the token lifetime. Defaults to 24 hours.
func (Token) GetTokenExpiry() time.Duration {
	hours, err := strconv.Atoi(GetEnv(tokenExpiryEnvVar, "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}
