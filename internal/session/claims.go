// internal/session/claims.go
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims are the parts of the backend credential the console reads. The
// signature is the backend's business; the console never verifies it.
type Claims struct {
	UserID        interface{} `json:"id,omitempty"`
	WalletAddress string      `json:"walletAddress,omitempty"`
	Email         string      `json:"email,omitempty"`
	jwt.RegisteredClaims
}

var errOpaqueToken = errors.New("session: credential is not a JWT")

// ParseClaims decodes the credential's claims without verifying it.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errOpaqueToken
	}
	return claims, nil
}

// Expired reports whether the claims carry an expiry that has passed.
func (c *Claims) Expired(now time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}
