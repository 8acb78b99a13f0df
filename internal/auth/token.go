package auth

import (
	"crypto/rand"
	"fmt"
)

// Alphabet for session identifiers and secrets. Lowercase alphanumeric
// with ambiguous glyphs (o, 0, 1, l lookalikes) left out so tokens
// survive being read aloud or retyped.
const tokenAlphabet = "abcdefghijklmnpqrstuvwxyz23456789"

const tokenLength = 24

// GenerateToken returns a fixed-length random string drawn from
// tokenAlphabet. Each output byte's top 5 bits pick the symbol; the
// selection bias is acceptable since these are identifiers, not keys.
func GenerateToken() (string, error) {
	bytes := make([]byte, tokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}

	out := make([]byte, tokenLength)
	for i, b := range bytes {
		out[i] = tokenAlphabet[b>>3]
	}
	return string(out), nil
}
