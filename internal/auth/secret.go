// Package auth owns the shared secret that internal callers present to the gateway.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"sync"
)

var (
	secretOnce sync.Once
	secret     string
)

// InternalSecret returns the process-lifetime secret. It is generated on
// first use and never changes afterwards.
func InternalSecret() string {
	secretOnce.Do(func() {
		secret = generateSecret()
	})
	return secret
}

// SecretMatches compares a presented credential with the internal secret
// in constant time.
func SecretMatches(presented string) bool {
	expected := InternalSecret()
	if presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) == 1
}

func generateSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("auth: failed to read random bytes: " + err.Error())
	}
	return "gw-" + hex.EncodeToString(b)
}
