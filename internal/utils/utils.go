package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashEmail returns a short stable digest so logs can correlate an address
// without storing it.
func HashEmail(email string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(hash[:])[:12]
}

// ShortID trims an identifier for log lines.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
