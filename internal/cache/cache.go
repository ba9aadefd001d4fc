package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching rendered reports
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ReportKey generates a cache key from an address
func ReportKey(address string) string {
	hash := sha256.Sum256([]byte(address))
	return "citylens:v1:" + hex.EncodeToString(hash[:])
}
