package rawcache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Entry is one cached provider response, keyed by (source, endpoint, params).
// The content hash lets a refetch detect an unchanged payload and
// short-circuit downstream mapping.
type Entry struct {
	Source      string
	Endpoint    string
	ParamsKey   string
	Payload     []byte
	ContentHash string
	FetchedAt   time.Time
}

func HashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
