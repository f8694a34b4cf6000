package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/taskmanager-api/internal/httputil"
	"github.com/redmonkez12/taskmanager-api/internal/logging"
)

// countingResolver records whether the gate reached token resolution.
type countingResolver struct {
	inner TokenResolver
	calls int
}

func (c *countingResolver) ResolveToken(token string) (*Identity, error) {
	c.calls++
	return c.inner.ResolveToken(token)
}

func TestRequireAuth(t *testing.T) {
	tokens := NewJWTService("test-secret")
	svc := NewService(nil, NewBcryptHasher(bcrypt.MinCost), tokens, logging.Discard(), time.Hour)

	valid, err := tokens.CreateToken(testIdentity, time.Hour)
	require.NoError(t, err)
	expired, err := tokens.CreateToken(testIdentity, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name         string
		header       string
		wantStatus   int
		wantCode     string
		wantResolved bool
		wantIdentity bool
	}{
		{"missing header", "", http.StatusUnauthorized, httputil.CodeMissingAuth, false, false},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, httputil.CodeMissingAuth, false, false},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, httputil.CodeMissingAuth, false, false},
		{"garbage token", "Bearer nope", http.StatusForbidden, httputil.CodeInvalidToken, true, false},
		{"expired token", "Bearer " + expired, http.StatusForbidden, httputil.CodeInvalidToken, true, false},
		{"valid token", "Bearer " + valid, http.StatusOK, "", true, true},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &countingResolver{inner: svc}
			var got *Identity
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = GetIdentityFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			NewMiddleware(resolver).RequireAuth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantResolved, resolver.calls > 0)

			if tt.wantIdentity {
				require.NotNil(t, got)
				assert.Equal(t, testIdentity, *got)
				return
			}

			assert.Nil(t, got)
			var env httputil.Envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantCode, env.Code)
		})
	}
}

func TestGetUserIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := GetUserIDFromContext(req.Context())
	assert.False(t, ok)

	id, ok := GetUserIDFromContext(WithIdentity(req.Context(), &Identity{ID: 7}))
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
}
