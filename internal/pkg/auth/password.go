package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for password hashing
const BcryptCost = 12

// passwordAlphabet is the fixed alphabet for generated student passwords.
// Ambiguous characters (0/O, 1/l/I) are left out so the password stays
// human-typeable.
const passwordAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GeneratedPasswordLength is the length of self-service reset passwords
const GeneratedPasswordLength = 8

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword verifies a plaintext password against a bcrypt hash
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// GeneratePassword draws a new random password from the fixed alphabet using
// a cryptographically strong source.
func GeneratePassword() (string, error) {
	result := make([]byte, GeneratedPasswordLength)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", fmt.Errorf("secure random generation failed: %w", err)
		}
		result[i] = passwordAlphabet[n.Int64()]
	}
	return string(result), nil
}

// PasswordAlphabet exposes the generation alphabet for validation in tests
// and callers that display password rules.
func PasswordAlphabet() string {
	return passwordAlphabet
}
