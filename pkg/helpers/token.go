package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomToken returns n random bytes encoded as unpadded base64url.
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewActivationToken generates an email confirmation token.
func NewActivationToken() (string, error) {
	return RandomToken(32)
}
