package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

const (
	passwordMinLength = 8
	passwordMaxLength = 100
)

// HashPassword hashes a password with bcrypt after mixing in the process-wide
// pepper via HMAC-SHA256. The HMAC pre-hash keeps the bcrypt input under its
// 72-byte limit for long passwords; bcrypt contributes its own per-call random
// salt, so two calls with the same input produce different encoded hashes.
func HashPassword(password, pepper string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(pepperedPassword(password, pepper), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

// VerifyPassword reports whether the password matches the stored hash. It
// returns false for malformed hashes and never distinguishes the reason.
func VerifyPassword(password, pepper, hashedPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), pepperedPassword(password, pepper))
	return err == nil
}

// CheckPasswordStrength requires at least one uppercase, one lowercase, one
// digit, one special character, and a total length between 8 and 100.
func CheckPasswordStrength(password string) bool {
	if len(password) < passwordMinLength || len(password) > passwordMaxLength {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= '0' && c <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSpecial
}

func pepperedPassword(password, pepper string) []byte {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}
