package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateSecureID returns a prefixed identifier with n random bytes of
// entropy, e.g. GenerateSecureID("aip", 16) -> "aip_9f86d081884c7d65...".
func GenerateSecureID(prefix string, n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("idgen: byte length must be positive, got %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("idgen: read random bytes: %w", err)
	}
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), "_")
	if prefix == "" {
		return hex.EncodeToString(buf), nil
	}
	return prefix + "_" + hex.EncodeToString(buf), nil
}
