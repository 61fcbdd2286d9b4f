package siteask

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// CacheStats reports cache occupancy and effectiveness.
type CacheStats struct {
	Keys   int    `json:"keys"`
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// Cache memoizes responses by question. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(key string) (*Response, bool)
	Set(key string, resp *Response)
	Flush()
	Stats() CacheStats
}

// CacheKey derives the cache key for a question. Questions that differ only
// in case or whitespace share a key.
func CacheKey(question string) string {
	normalized := strings.ToLower(CollapseWhitespace(question))
	return "q:" + strconv.FormatUint(xxhash.Sum64String(normalized), 16)
}
