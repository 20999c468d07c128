package api

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/p10-paddock/internal/metrics"
)

// QueryCache keeps the data payload of recent queries. Entries expire after the TTL and
// are dropped explicitly when a mutation changes the data they hold.
type QueryCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewQueryCache creates a new query cache. A zero ttl disables caching.
func NewQueryCache(ttl time.Duration) *QueryCache {
	cleanup := ttl * 2
	if ttl <= 0 {
		cleanup = 0
	}
	return &QueryCache{
		cache: cache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// Enabled reports whether results are kept at all
func (qc *QueryCache) Enabled() bool {
	return qc != nil && qc.ttl > 0
}

// Key builds the cache key of an operation and its variables
func Key(operation string, variables map[string]interface{}) string {
	if len(variables) == 0 {
		return operation
	}

	names := make([]string, 0, len(variables))
	for name := range variables {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(operation)
	for _, name := range names {
		value, err := json.Marshal(variables[name])
		if err != nil {
			continue
		}
		b.WriteString("|")
		b.WriteString(name)
		b.WriteString("=")
		b.Write(value)
	}
	return b.String()
}

// Get retrieves a cached data payload
func (qc *QueryCache) Get(operation string, variables map[string]interface{}) (json.RawMessage, bool) {
	if !qc.Enabled() {
		return nil, false
	}

	qc.mu.Lock()
	defer qc.mu.Unlock()

	if result, found := qc.cache.Get(Key(operation, variables)); found {
		if data, ok := result.(json.RawMessage); ok {
			qc.hitCount++
			metrics.RecordCacheLookup(operation, true)
			return data, true
		}
	}

	qc.missCount++
	metrics.RecordCacheLookup(operation, false)
	return nil, false
}

// Set stores a data payload
func (qc *QueryCache) Set(operation string, variables map[string]interface{}, data json.RawMessage) {
	if !qc.Enabled() {
		return
	}
	stored := make(json.RawMessage, len(data))
	copy(stored, data)
	qc.cache.Set(Key(operation, variables), stored, qc.ttl)
}

// Invalidate removes every entry of the given operations, whatever their variables
func (qc *QueryCache) Invalidate(operations ...string) int {
	if !qc.Enabled() || len(operations) == 0 {
		return 0
	}

	qc.mu.Lock()
	defer qc.mu.Unlock()

	removed := 0
	for key := range qc.cache.Items() {
		for _, op := range operations {
			if key == op || strings.HasPrefix(key, op+"|") {
				qc.cache.Delete(key)
				removed++
				break
			}
		}
	}
	return removed
}

// Flush drops every entry
func (qc *QueryCache) Flush() {
	if qc == nil {
		return
	}
	qc.mu.Lock()
	defer qc.mu.Unlock()
	qc.cache.Flush()
}

// Stats returns cache statistics
func (qc *QueryCache) Stats() (hits, misses uint64, ratio float64) {
	qc.mu.RLock()
	defer qc.mu.RUnlock()

	hits = qc.hitCount
	misses = qc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (qc *QueryCache) ItemCount() int {
	return qc.cache.ItemCount()
}
