package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultTokenTTLDays = 7

// DefaultAdminSentinelEmail is the address historically allowed to
// self-register as an administrator. Override with ADMIN_SENTINEL_EMAIL.
// A single well-known address acting as a shared secret is a weak bootstrap
// mechanism; it is kept for compatibility with existing deployments.
const DefaultAdminSentinelEmail = "admin@biosfera.ru"

// AuthConfig holds the token signing secret, token lifetime and the admin
// bootstrap sentinel email. It is constructed once at startup and passed by
// reference; there is no package-level mutable state.
type AuthConfig struct {
	SecretKey          string
	TokenTTL           time.Duration
	AdminSentinelEmail string
}

// LoadAuthConfig loads authentication configuration from environment
// variables. JWT_SECRET_KEY is mandatory: there is no fallback secret.
func LoadAuthConfig() (*AuthConfig, error) {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	ttlDays := int64(defaultTokenTTLDays)
	if v := os.Getenv("JWT_TTL_DAYS"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid JWT_TTL_DAYS %q", v)
		}
		ttlDays = parsed
	}

	sentinel := os.Getenv("ADMIN_SENTINEL_EMAIL")
	if sentinel == "" {
		sentinel = DefaultAdminSentinelEmail
	}

	return &AuthConfig{
		SecretKey:          secret,
		TokenTTL:           time.Duration(ttlDays) * 24 * time.Hour,
		AdminSentinelEmail: sentinel,
	}, nil
}
