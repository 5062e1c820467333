// Package utils provides utility functions for the application.
package utils

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// VerificationTokenLength is the fixed length of certificate verification
// tokens: 16 uppercase hexadecimal characters.
const VerificationTokenLength = 16

// NewVerificationToken mints a verification token from a fresh UUID:
// the first 16 hex digits, uppercased. Global uniqueness is enforced by the
// database index, not by this function.
func NewVerificationToken() string {
	id := uuid.New()
	return strings.ToUpper(hex.EncodeToString(id[:]))[:VerificationTokenLength]
}

// IsVerificationToken reports whether s has the shape of a verification
// token. It does not consult storage.
func IsVerificationToken(s string) bool {
	if len(s) != VerificationTokenLength {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
