package extraction

import (
	"context"
	"encoding/hex"
	"log/slog"
	"time"

	"golang.org/x/crypto/blake2b"
)

const cacheKeyPrefix = "locker:extract:"

// Fingerprint identifies a document by the hex BLAKE2b-256 of its bytes.
func Fingerprint(document []byte) string {
	sum := blake2b.Sum256(document)
	return hex.EncodeToString(sum[:])
}

// JSONCache stores JSON-encoded values with a TTL.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// CachedExtractor serves repeated uploads of the same document from a
// cache. Cache failures are logged and fall through to the wrapped
// extractor.
type CachedExtractor struct {
	next  Extractor
	cache JSONCache
	ttl   time.Duration
}

// NewCachedExtractor wraps next with cache.
func NewCachedExtractor(next Extractor, cache JSONCache, ttl time.Duration) *CachedExtractor {
	return &CachedExtractor{next: next, cache: cache, ttl: ttl}
}

func (c *CachedExtractor) Extract(ctx context.Context, document []byte) (Table, error) {
	if len(document) == 0 {
		return nil, ErrNoDocument
	}

	key := cacheKeyPrefix + Fingerprint(document)
	var table Table
	hit, err := c.cache.GetJSON(ctx, key, &table)
	if err != nil {
		slog.Warn("extraction cache read failed", "key", key, "error", err)
	}
	if hit && err == nil {
		slog.Debug("extraction cache hit", "key", key)
		return table, nil
	}

	table, err = c.next.Extract(ctx, document)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetJSON(ctx, key, table, c.ttl); err != nil {
		slog.Warn("extraction cache write failed", "key", key, "error", err)
	}
	return table, nil
}
