package auth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "electoral/pkg/domain"
	"electoral/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) { return s.claims, s.err }

type stubRevocation struct {
	revoked bool
	err     error
}

func (s stubRevocation) IsTokenRevoked(context.Context, string) (bool, error) {
	return s.revoked, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func run(t *testing.T, mw func(http.Handler) http.Handler, header string) (*httptest.ResponseRecorder, context.Context) {
	t.Helper()
	var seen context.Context
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context()
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequireAuth(t *testing.T) {
	valid := &JWTClaims{UserID: "42", Roles: []string{"AGENT"}, JTI: "jti-1"}

	t.Run("missing header", func(t *testing.T) {
		rec, _ := run(t, RequireAuth(stubValidator{claims: valid}, nil, discardLogger()), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		rec, _ := run(t, RequireAuth(stubValidator{err: errors.New("bad")}, nil, discardLogger()), "Bearer x")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		rec, _ := run(t, RequireAuth(stubValidator{claims: valid}, stubRevocation{revoked: true}, discardLogger()), "Bearer x")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token has been revoked")
	})

	t.Run("revocation backend failure", func(t *testing.T) {
		rec, _ := run(t, RequireAuth(stubValidator{claims: valid}, stubRevocation{err: errors.New("down")}, discardLogger()), "Bearer x")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("valid token populates context", func(t *testing.T) {
		rec, ctx := run(t, RequireAuth(stubValidator{claims: valid}, stubRevocation{}, discardLogger()), "Bearer x")
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, id.UserID(42), requestcontext.UserID(ctx))
		assert.Equal(t, []string{"AGENT"}, requestcontext.Roles(ctx))
		tok, ok := requestcontext.AccessToken(ctx)
		require.True(t, ok)
		assert.Equal(t, "jti-1", tok.JTI)
	})
}

func TestRequireRoles(t *testing.T) {
	mw := RequireRoles(discardLogger(), "ADMIN", "SUPER_ADMIN")

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(requestcontext.WithRoles(req.Context(), []string{"VOTER"})))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(requestcontext.WithRoles(req.Context(), []string{"VOTER", "SUPER_ADMIN"})))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
