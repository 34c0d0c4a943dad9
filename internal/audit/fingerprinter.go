package audit

import (
	"crypto/sha256"
	"encoding/hex"
)

// FingerprintLength is the number of hex characters kept from the digest.
const FingerprintLength = 16

// Fingerprint returns a short one-way digest of a secret token value.
// It allows correlating log lines and audit entries without exposing the token.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])[:FingerprintLength]
}
