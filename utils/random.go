package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// GenerateCode returns 2n uppercase hex characters from a secure source.
func GenerateCode(n int) (string, error) {
	byt := make([]byte, n)

	if _, err := rand.Read(byt); err != nil {
		return "", err
	}

	return strings.ToUpper(hex.EncodeToString(byt)), nil
}

// NewTicketCode produces a human-facing ticket code like TKT-3F9A21C04B.
// Collisions are left to the store's uniqueness check on creation.
func NewTicketCode() (string, error) {
	code, err := GenerateCode(5)
	if err != nil {
		return "", err
	}
	return "TKT-" + code, nil
}
