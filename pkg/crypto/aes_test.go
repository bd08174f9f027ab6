package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wishy-app/backend/pkg/crypto"
)

func TestEncryptDecrypt(t *testing.T) {
	ciphertext, err := crypto.Encrypt([]byte("provider-access-token"), "secret")
	require.NoError(t, err)
	require.NotEqual(t, []byte("provider-access-token"), ciphertext)

	plaintext, err := crypto.Decrypt(ciphertext, "secret")
	require.NoError(t, err)
	require.Equal(t, []byte("provider-access-token"), plaintext)
}

func TestDecryptWrongSecret(t *testing.T) {
	ciphertext, err := crypto.Encrypt([]byte("provider-access-token"), "secret")
	require.NoError(t, err)

	_, err = crypto.Decrypt(ciphertext, "another-secret")
	require.Error(t, err)
}

func TestDecryptTooShort(t *testing.T) {
	_, err := crypto.Decrypt([]byte("short"), "secret")
	require.Error(t, err)
}
