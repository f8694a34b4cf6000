package auth

import (
	"fmt"
	"strconv"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

// PasetoService handles PASETO token creation and validation
// Uses v4.local (symmetric encryption with XChaCha20-Poly1305)
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
}

func NewPasetoService(symmetricKey []byte) (*PasetoService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{symmetricKey: key}, nil
}

func (s *PasetoService) CreateToken(identity Identity, duration time.Duration) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetJti(uuid.NewString())
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(duration))
	// Numbers survive a JSON round trip as float64, so the id travels as a string
	token.SetString("id", strconv.FormatInt(identity.ID, 10))
	token.SetString("email", identity.Email)
	token.SetString("name", identity.Name)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

func (s *PasetoService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	// Expiry is checked below so it can be told apart from a bad token
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	rawID, err := token.GetString("id")
	if err != nil {
		return nil, ErrInvalidToken
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrInvalidToken
	}

	email, err := token.GetString("email")
	if err != nil {
		return nil, ErrInvalidToken
	}
	name, err := token.GetString("name")
	if err != nil {
		return nil, ErrInvalidToken
	}

	jti, err := token.GetJti()
	if err != nil {
		return nil, ErrInvalidToken
	}
	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, ErrInvalidToken
	}
	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !time.Now().Before(expiresAt) {
		return nil, ErrExpiredToken
	}

	return &TokenClaims{
		Identity:  Identity{ID: id, Email: email, Name: name},
		TokenID:   jti,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
