package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of data. Description text and layout JSON
// are identified by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns kind + ":" + the SHA-256 of each part encoded as one
// JSON line. Struct field order is fixed, so equal options hash equally.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		_ = enc.Encode(p)
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
