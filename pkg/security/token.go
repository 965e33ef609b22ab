package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const tokenBytes = 32

// NewSessionToken mints an opaque bearer token and the digest under which it
// is stored. The raw token goes to the client; only the digest is persisted,
// so a database read never yields a usable credential.
func NewSessionToken() (raw string, digest string, err error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	raw = base64.RawURLEncoding.EncodeToString(buf)
	return raw, DigestToken(raw), nil
}

// DigestToken maps a raw token onto its stored digest.
func DigestToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
