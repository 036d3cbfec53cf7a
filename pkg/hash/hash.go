package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// ShortHash returns a 12-character SHA256 prefix, used to correlate caller
// identities and IPs in logs without writing them in the clear. The empty
// string maps to "anonymous".
func ShortHash(input string) string {
	if input == "" {
		return "anonymous"
	}
	return SHA256Hex(input)[:12]
}
