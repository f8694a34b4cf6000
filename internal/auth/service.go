package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redmonkez12/taskmanager-api/internal/apperror"
	"github.com/redmonkez12/taskmanager-api/internal/logging"
	"github.com/redmonkez12/taskmanager-api/internal/user"
)

var (
	ErrInvalidCredentials = apperror.New(apperror.Unauthorized, "Invalid email or password")
	ErrInvalidToken       = apperror.New(apperror.Forbidden, "Invalid or expired token")
	ErrNoFieldsToUpdate   = apperror.New(apperror.Validation, "No fields to update")
	ErrTokenSecretMissing = apperror.New(apperror.Internal, "JWT secret not configured")
)

// UserStore is the slice of the credential store the service needs.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash, name string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
	Update(ctx context.Context, id int64, p user.Patch) (*user.User, error)
	Delete(ctx context.Context, id int64) error
}

// AuthResult is returned by a successful login.
type AuthResult struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// ProfilePatch carries the profile fields a caller wants changed.
type ProfilePatch struct {
	Name     *string
	Email    *string
	Password *string
}

func (p ProfilePatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil
}

// Service handles authentication business logic
type Service struct {
	users    UserStore
	hasher   PasswordHasher
	tokens   TokenService
	logger   *logging.Logger
	tokenTTL time.Duration

	dummyOnce sync.Once
	dummyHash string
}

func NewService(users UserStore, hasher PasswordHasher, tokens TokenService, logger *logging.Logger, tokenTTL time.Duration) *Service {
	return &Service{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
		tokenTTL: tokenTTL,
	}
}

// Register creates a new account and returns it without the password hash.
func (s *Service) Register(ctx context.Context, email, password, name string) (*user.User, error) {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, user.ErrDuplicateEmail
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	// The unique index still catches a concurrent registration
	created, err := s.users.Create(ctx, email, passwordHash, name)
	if err != nil {
		return nil, err
	}

	return created.Public(), nil
}

// Authenticate checks credentials and issues a bearer token. An unknown
// email and a wrong password fail with the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Spend the same hashing work as a wrong password
			s.hasher.Verify(s.dummyPasswordHash(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(existing.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(Identity{
		ID:    existing.ID,
		Email: existing.Email,
		Name:  existing.Name,
	}, s.tokenTTL)
	if err != nil {
		if errors.Is(err, ErrTokenSecretMissing) {
			s.logger.Error("cannot issue token: signing secret is not configured")
			return nil, ErrTokenSecretMissing
		}
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &AuthResult{Token: token, User: existing.Public()}, nil
}

// dummyPasswordHash is a hash produced with the configured hasher that no
// account owns. It is computed on first use.
func (s *Service) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("unused-account-placeholder")
		if err != nil {
			s.logger.Error("failed to prepare dummy password hash", "error", err.Error())
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// ResolveToken verifies a bearer token and returns the identity it was
// issued for. Storage is not consulted.
func (s *Service) ResolveToken(token string) (*Identity, error) {
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	identity := claims.Identity
	return &identity, nil
}

func (s *Service) GetProfile(ctx context.Context, id int64) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Public(), nil
}

// UpdateProfile applies the supplied fields, re-hashing a new password.
func (s *Service) UpdateProfile(ctx context.Context, id int64, p ProfilePatch) (*user.User, error) {
	if p.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}

	patch := user.Patch{Name: p.Name, Email: p.Email}
	if p.Password != nil {
		passwordHash, err := s.hasher.Hash(*p.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &passwordHash
	}

	updated, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	return updated.Public(), nil
}

// DeleteAccount removes the user and, through the foreign key, their tasks.
func (s *Service) DeleteAccount(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}
