// Package cache stores normalized upstream lookup results so repeated
// queries inside the TTL window do not hit the collaborators again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache defines the interface for caching serialized lookup results.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// LookupKey builds a cache key from a lookup signature. The key is hashed
// so arbitrary keywords never produce unsafe file names, and versioned so
// a schema change invalidates old entries.
func LookupKey(sourceName, keyword string, limit, recencyWindowDays int) string {
	sig := fmt.Sprintf("%s|%s|%d|%d", sourceName, keyword, limit, recencyWindowDays)
	hash := sha256.Sum256([]byte(sig))
	return "platewatch:v1:" + hex.EncodeToString(hash[:])
}

// ProductKey builds a cache key for a product lookup.
func ProductKey(id string) string {
	hash := sha256.Sum256([]byte("product|" + id))
	return "platewatch:v1:" + hex.EncodeToString(hash[:])
}
