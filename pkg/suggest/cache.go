package suggest

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// cachedResult is an unlimited, already sorted query result.
type cachedResult struct {
	exact  bool
	titles []string
}

// ResultCache keeps recent query results keyed by query string. Keys live in
// patricia tries so that inserting a title can drop exactly the prefix queries
// it affects.
type ResultCache struct {
	prefixTrie   *patricia.Trie
	containsTrie *patricia.Trie
	accessTime   map[cacheKey]int64
	accessCount  int64
	hits         int64
	misses       int64
	maxEntries   int
	mu           sync.Mutex
}

type cacheKey struct {
	mode  Mode
	query string
}

// NewResultCache creates a cache holding at most maxEntries results.
// maxEntries <= 0 disables caching.
func NewResultCache(maxEntries int) *ResultCache {
	return &ResultCache{
		prefixTrie:   patricia.NewTrie(),
		containsTrie: patricia.NewTrie(),
		accessTime:   make(map[cacheKey]int64),
		maxEntries:   maxEntries,
	}
}

// key maps a query to a non-empty trie key; the leading marker keeps the
// empty query addressable and makes it a prefix of every other key.
func key(query string) patricia.Prefix {
	return patricia.Prefix("\x00" + query)
}

func (rc *ResultCache) trieFor(mode Mode) *patricia.Trie {
	if mode == ModeContains {
		return rc.containsTrie
	}
	return rc.prefixTrie
}

// Get returns the cached result for query in the given mode.
func (rc *ResultCache) Get(mode Mode, query string) (cachedResult, bool) {
	if rc == nil || rc.maxEntries <= 0 {
		return cachedResult{}, false
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	item := rc.trieFor(mode).Get(key(query))
	if item == nil {
		rc.misses++
		return cachedResult{}, false
	}
	rc.hits++
	rc.accessTime[cacheKey{mode, query}] = rc.nextAccessTime()
	return item.(cachedResult), true
}

// Put stores a result, evicting the least recently used entry when full.
func (rc *ResultCache) Put(mode Mode, query string, res cachedResult) {
	if rc == nil || rc.maxEntries <= 0 {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	k := cacheKey{mode, query}
	if _, exists := rc.accessTime[k]; !exists && len(rc.accessTime) >= rc.maxEntries {
		rc.evictLRU()
	}
	rc.trieFor(mode).Set(key(query), res)
	rc.accessTime[k] = rc.nextAccessTime()
}

// InvalidateTitle drops every result a newly indexed title can change: the
// prefix queries that are prefixes of title, and all contains queries.
func (rc *ResultCache) InvalidateTitle(title string) {
	if rc == nil || rc.maxEntries <= 0 {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	var stale []patricia.Prefix
	err := rc.prefixTrie.VisitPrefixes(key(title), func(p patricia.Prefix, _ patricia.Item) error {
		stale = append(stale, append(patricia.Prefix(nil), p...))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting cached prefixes: %v", err)
	}
	for _, p := range stale {
		rc.prefixTrie.Delete(p)
		delete(rc.accessTime, cacheKey{ModePrefix, string(p[1:])})
	}

	dropped := 0
	for k := range rc.accessTime {
		if k.mode == ModeContains {
			delete(rc.accessTime, k)
			dropped++
		}
	}
	rc.containsTrie = patricia.NewTrie()

	if len(stale) > 0 || dropped > 0 {
		log.Debugf("Invalidated %d prefix and %d contains results for '%s'", len(stale), dropped, title)
	}
}

// Stats returns counters for the cache.
func (rc *ResultCache) Stats() map[string]int {
	if rc == nil {
		return map[string]int{}
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return map[string]int{
		"cacheEntries":    len(rc.accessTime),
		"maxCacheEntries": rc.maxEntries,
		"cacheHits":       int(rc.hits),
		"cacheMisses":     int(rc.misses),
	}
}

func (rc *ResultCache) nextAccessTime() int64 {
	rc.accessCount++
	return rc.accessCount
}

func (rc *ResultCache) evictLRU() {
	var oldest cacheKey
	var oldestTime int64 = math.MaxInt64
	found := false

	for k, t := range rc.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldest = k
			found = true
		}
	}

	if found {
		rc.trieFor(oldest.mode).Delete(key(oldest.query))
		delete(rc.accessTime, oldest)
		log.Debugf("Evicted %s query '%s' from result cache", oldest.mode, oldest.query)
	}
}
