package util

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a salted bcrypt hash of the given plaintext.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(h), err
}

// VerifyPassword reports whether the plaintext matches the stored hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// TokenDigest maps an opaque token to a fixed-size hex digest. Signed tokens
// exceed bcrypt's 72-byte input limit, so they are digested before hashing.
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// HashToken returns a bcrypt hash of the token's digest, suitable for storage.
func HashToken(token string) (string, error) {
	return HashPassword(TokenDigest(token))
}

// VerifyToken reports whether the raw token matches the stored token hash.
func VerifyToken(hash, token string) bool {
	return VerifyPassword(hash, TokenDigest(token))
}
