package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrExpiredToken = errors.New("token has expired")

// jwtClaims is the wire form of an HS256 token.
type jwtClaims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies HS256 JWTs with a shared secret.
type JWTService struct {
	secret []byte
}

// NewJWTService accepts an empty secret so the server can start; issuing
// a token then fails with ErrTokenSecretMissing.
func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

func (s *JWTService) CreateToken(identity Identity, duration time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenSecretMissing
	}

	now := time.Now()
	claims := jwtClaims{
		ID:    identity.ID,
		Email: identity.Email,
		Name:  identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func (s *JWTService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	if len(s.secret) == 0 {
		return nil, ErrTokenSecretMissing
	}

	var claims jwtClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.ID <= 0 {
		return nil, ErrInvalidToken
	}

	out := &TokenClaims{
		Identity: Identity{ID: claims.ID, Email: claims.Email, Name: claims.Name},
		TokenID:  claims.RegisteredClaims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}

	return out, nil
}
