package util

import (
	"golang.org/x/crypto/bcrypt"
)

// Registry operator accounts are long-lived and rarely re-hashed, so the
// work factor sits above bcrypt.DefaultCost.
const credentialHashCost = 12

// HashCredential hashes an operator's plain-text password for storage.
func HashCredential(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), credentialHashCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyCredential reports whether a plain-text password matches the stored
// hash. An empty stored hash never matches, so accounts provisioned without
// a password cannot be logged into.
func VerifyCredential(storedHash, password string) bool {
	if storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}
