package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a stage-scoped cache key of the form prefix:sha256(parts).
// The parts are JSON-encoded before hashing, so any comparable mix of
// precision, config hash, and artifact options produces a stable key. The
// full 64-hex-character digest is kept; truncating would invite collisions
// between near-identical poster configs.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 digest of data. It identifies plan bytes for
// artifact keys and doubles as the ETag value served over HTTP.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
