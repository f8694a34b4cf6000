package auth

import (
	"time"
)

// Identity is the caller as recorded in a bearer token at issuance.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenClaims is a verified token's payload.
type TokenClaims struct {
	Identity
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
type TokenService interface {
	CreateToken(identity Identity, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}
