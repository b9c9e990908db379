// Package securetoken generates opaque identifiers from a cryptographically
// secure randomness source. Session ids and CSRF state values are both minted
// here so they carry the same entropy.
package securetoken

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generate returns byteLength random bytes rendered as a fixed-width
// lowercase hexadecimal string (2 * byteLength characters).
func Generate(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf("byte length must be positive, got %d", byteLength)
	}
	tokenBytes := make([]byte, byteLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(tokenBytes), nil
}
