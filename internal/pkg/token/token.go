package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewSecret generates a cryptographically random 64-character hex token.
// Used as the creator secret: a bearer capability, never derivable from the
// poll identifier.
func NewSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
