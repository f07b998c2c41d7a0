package xr

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainXR is the hash domain of canonical trees. The version suffix allows
// the encoding to change without colliding with older cache entries.
const DomainXR = "xrq/xr/v1"

// Hash computes the content address of v: SHA-256 over the domain, a NUL
// separator and the canonical JSON of v. Equal trees hash identically.
func Hash(v any) (string, error) {
	data, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("Hash: failed to marshal: %w", err)
	}
	return HashBytes(DomainXR, data), nil
}

// HashBytes hashes data under domain.
func HashBytes(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
