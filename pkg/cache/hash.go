package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash returns the SHA-256 hex digest of data. Used to fingerprint
// serialized base graphs for cache keying.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a cache key by hashing the string form of each component.
// Components are joined with a separator before hashing so that adjacent
// fields cannot collide ("ab"+"c" vs "a"+"bc").
func hashKey(parts ...any) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%v", p)
	}
	return Hash([]byte(b.String()))
}
