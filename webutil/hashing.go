package webutil

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateHash creates a SHA-256 hash of the input bytes and returns it
// as a hexadecimal string.
func GenerateHash(data []byte) (string, error) {
	hasher := sha256.New()
	if _, err := hasher.Write(data); err != nil {
		return "", fmt.Errorf("failed to write data to hasher: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// GenerateRandomToken returns n random bytes hex-encoded (2n characters).
func GenerateRandomToken(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
