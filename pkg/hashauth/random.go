package hashauth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// randomSize is the number of random bytes in a generated nonce.
const randomSize = 24

// GenerateRandom returns a cryptographically random nonce suitable for use as
// the random argument of CreateAuthentication. The value is base64url encoded
// without padding so it can be sent in a header or query parameter unchanged.
func GenerateRandom() (string, error) {
	b := make([]byte, randomSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("hashauth: failed to generate random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
