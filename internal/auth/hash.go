package auth

import (
	"crypto/sha256"
	"crypto/subtle"
)

// HashSecret computes the SHA-256 digest of the UTF-8 encoding of
// secret. Used for session secrets; event-management passwords go
// through bcrypt instead.
func HashSecret(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// DigestsEqual compares two digests in constant time with respect to
// content. The length check short-circuits, which is fine here: digest
// lengths are fixed by construction.
func DigestsEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
