package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justmahmoud31/Ryo-Server/internal/auth"
	"github.com/justmahmoud31/Ryo-Server/internal/users"
)

func TestTokenRoundTrip(t *testing.T) {
	tk := auth.NewTokens("secret-a")
	u := &users.User{ID: "u-1", Email: "ada@example.com", Role: users.RoleAdmin}

	raw, err := tk.Issue(u)
	require.NoError(t, err)

	claims, err := tk.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, users.RoleAdmin, claims.Role)
}

func TestTokenWrongSecret(t *testing.T) {
	raw, err := auth.NewTokens("secret-a").Issue(&users.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = auth.NewTokens("secret-b").Verify(raw)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	tk := auth.NewTokens("secret-a")
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := tk.Verify(raw)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	}
}

func TestNewOTPFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := auth.NewOTP()
		require.Len(t, code, 6)
		for _, c := range code {
			require.True(t, c >= '0' && c <= '9', "non-digit in %q", code)
		}
		seen[code] = true
	}
	// 50 draws from 900000 values repeating every time would mean a broken RNG
	assert.Greater(t, len(seen), 1)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, auth.CheckPassword(hash, "hunter2"))
	assert.False(t, auth.CheckPassword(hash, "hunter3"))
}
