package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justmahmoud31/Ryo-Server/internal/auth"
	"github.com/justmahmoud31/Ryo-Server/internal/users"
)

func bearerFor(t *testing.T, tokens *auth.Tokens, u *users.User) string {
	t.Helper()
	raw, err := tokens.Issue(u)
	require.NoError(t, err)
	return "Bearer " + raw
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewTokens("test-secret")
	var seen *auth.Claims
	h := Authenticate(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc")
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid token"}`, rec.Body.String())
	})

	t.Run("wrong secret", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", bearerFor(t, auth.NewTokens("other"), &users.User{ID: "u-1"}))
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("valid token propagates claims", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", bearerFor(t, tokens, &users.User{
			ID: "u-1", Email: "ada@example.com", Role: users.RoleAdmin,
		}))
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "u-1", seen.UserID)
		assert.Equal(t, users.RoleAdmin, seen.Role)
	})
}

func TestRequireRoles(t *testing.T) {
	tokens := auth.NewTokens("test-secret")
	guarded := Authenticate(tokens)(RequireRoles(users.RoleAdmin, users.RoleSuperuser)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})))

	call := func(role users.Role) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", bearerFor(t, tokens, &users.User{ID: "u-1", Role: role}))
		guarded.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call(users.RoleAdmin))
	assert.Equal(t, http.StatusNoContent, call(users.RoleSuperuser))
	assert.Equal(t, http.StatusForbidden, call(users.RoleUser))

	t.Run("no claims in context", func(t *testing.T) {
		bare := RequireRoles(users.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		rec := httptest.NewRecorder()
		bare.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"Access denied"}`, rec.Body.String())
	})
}
