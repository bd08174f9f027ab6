package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// GenerateCodeVerifier returns a PKCE code verifier per RFC 7636. 64 random
// bytes encode to 86 url-safe characters, inside the required 43-128 range.
func GenerateCodeVerifier() (string, error) {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CodeChallenge derives the S256 challenge of a code verifier.
func CodeChallenge(verifier string) string {
	digest := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(digest[:])
}

// GenerateState returns a random token protecting the redirect against CSRF.
func GenerateState() (string, error) {
	return generateURLSafeToken(24)
}

// GenerateNonce returns a random token for OIDC replay protection.
func GenerateNonce() (string, error) {
	return generateURLSafeToken(24)
}

func generateURLSafeToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
