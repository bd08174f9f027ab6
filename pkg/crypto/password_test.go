package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wishy-app/backend/pkg/crypto"
)

func TestHashPassword(t *testing.T) {
	hash, err := crypto.HashPassword("Sup3r-secret", "pepper")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	require.True(t, crypto.VerifyPassword("Sup3r-secret", "pepper", hash))
	require.False(t, crypto.VerifyPassword("Sup3r-secret!", "pepper", hash))
	require.False(t, crypto.VerifyPassword("Sup3r-secret", "another-pepper", hash))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := crypto.HashPassword("Sup3r-secret", "pepper")
	require.NoError(t, err)

	second, err := crypto.HashPassword("Sup3r-secret", "pepper")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestHashPasswordLongInput(t *testing.T) {
	// 100 characters, far over bcrypt's 72-byte input limit without the
	// pre-hash.
	long := "Aa1!"
	for len(long) < 100 {
		long += "xY9?"
	}
	long = long[:100]

	hash, err := crypto.HashPassword(long, "pepper")
	require.NoError(t, err)
	require.True(t, crypto.VerifyPassword(long, "pepper", hash))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	require.False(t, crypto.VerifyPassword("Sup3r-secret", "pepper", "not-a-bcrypt-hash"))
	require.False(t, crypto.VerifyPassword("Sup3r-secret", "pepper", ""))
}

func TestCheckPasswordStrength(t *testing.T) {
	testcases := []struct {
		password string
		expected bool
	}{
		{"Abcdef1!", true},
		{"A1!aaaaa", true},
		{"abcdefgh", false},    // no upper, digit, special
		{"ABCDEFG1!", false},   // no lower
		{"Abcdefgh!", false},   // no digit
		{"Abcdefg1", false},    // no special
		{"A1!a", false},        // too short
		{"Str0ng&Steady", true},
	}

	for _, tc := range testcases {
		require.Equal(t, tc.expected, crypto.CheckPasswordStrength(tc.password),
			"password %q", tc.password)
	}

	long := "A1!"
	for len(long) < 101 {
		long += "a"
	}
	require.False(t, crypto.CheckPasswordStrength(long))
}
