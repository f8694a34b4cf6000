package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/redmonkez12/taskmanager-api/internal/httputil"
	"github.com/redmonkez12/taskmanager-api/internal/logging"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const IdentityContextKey ContextKey = "identity"

// TokenResolver turns a bearer token into the identity it was issued for.
type TokenResolver interface {
	ResolveToken(token string) (*Identity, error)
}

// Middleware handles authentication for protected routes
type Middleware struct {
	resolver TokenResolver
}

func NewMiddleware(resolver TokenResolver) *Middleware {
	return &Middleware{resolver: resolver}
}

// RequireAuth rejects requests without a usable bearer token. A missing
// credential is 401; one that fails verification is 403.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			httputil.RespondErrorWithCode(w, "Access token required", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		identity, err := m.resolver.ResolveToken(token)
		if err != nil {
			logging.GetLoggerFromContext(r.Context()).Debug("token rejected", "error", err.Error())
			httputil.RespondErrorWithCode(w, ErrInvalidToken.Message, httputil.CodeInvalidToken, http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, identity)
}

// GetIdentityFromContext extracts the caller's identity from the request context
func GetIdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(*Identity)
	return identity, ok && identity != nil
}

// GetUserIDFromContext extracts the caller's user ID from the request context
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	identity, ok := GetIdentityFromContext(ctx)
	if !ok {
		return 0, false
	}
	return identity.ID, true
}
