package suggest

import (
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/bastiangx/corpusquery/internal/utils"
	"github.com/bastiangx/corpusquery/pkg/trie"
	"github.com/charmbracelet/log"
)

// Mode selects how a query is matched against indexed titles.
type Mode int

const (
	ModePrefix   Mode = iota // titles starting with the query
	ModeContains             // titles containing the query anywhere
)

func (m Mode) String() string {
	switch m {
	case ModePrefix:
		return "prefix"
	case ModeContains:
		return "contains"
	default:
		return "unknown"
	}
}

// Suggestion is a single ranked title. Rank 1 is the first result.
type Suggestion struct {
	Title string
	Rank  uint16
}

// Result is the answer to a single query.
type Result struct {
	Query string
	Mode  Mode
	// Exact is true in prefix mode when the query itself is an indexed title,
	// and in contains mode when the query occurs inside any indexed title.
	Exact       bool
	Suggestions []Suggestion
	// Total counts matching titles before the limit was applied.
	Total int
}

// Options configures a Completer.
type Options struct {
	EnableSubstring bool
	CacheSize       int
}

// DefaultOptions returns Options with the substring index on and a small cache.
func DefaultOptions() Options {
	return Options{
		EnableSubstring: true,
		CacheSize:       512,
	}
}

// Completer answers prefix and contains queries over a set of titles.
//
// AddTitle takes the write lock; queries share the read lock. The intended use
// is to add the whole corpus first and query afterwards.
type Completer struct {
	mu        sync.RWMutex
	prefix    *trie.PrefixIndex
	substring *trie.SubstringIndex
	cache     *ResultCache
	titles    []string
	maxRunes  int
}

// NewCompleter creates an empty completer.
func NewCompleter(opts Options) *Completer {
	c := &Completer{
		prefix: trie.NewPrefixIndex(),
		cache:  NewResultCache(opts.CacheSize),
	}
	if opts.EnableSubstring {
		c.substring = trie.NewSubstringIndex()
	}
	return c
}

// AddTitle indexes title in both indexes. It returns false if the title was
// already present, in which case nothing changes.
func (c *Completer) AddTitle(title string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addLocked(title)
}

// AddTitles indexes all titles under one write lock and returns how many were new.
func (c *Completer) AddTitles(titles []string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	added := 0
	for _, title := range titles {
		if c.addLocked(title) {
			added++
		}
	}
	log.Debugf("Indexed %d new titles (%d given)", added, len(titles))
	return added
}

func (c *Completer) addLocked(title string) bool {
	if c.prefix.Contains(title) {
		return false
	}
	c.prefix.Insert(title)
	if c.substring != nil {
		c.substring.Insert(title)
	}
	c.titles = append(c.titles, title)
	if n := len([]rune(title)); n > c.maxRunes {
		c.maxRunes = n
	}
	c.cache.InvalidateTitle(title)
	return true
}

// Complete returns the titles starting with prefix in lexical order.
// limit <= 0 returns all of them.
func (c *Completer) Complete(prefix string, limit int) Result {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, ok := c.cache.Get(ModePrefix, prefix)
	if !ok {
		res := c.prefix.Search(prefix)
		sort.Strings(res.Suggestions)
		cached = cachedResult{exact: res.Exact, titles: res.Suggestions}
		c.cache.Put(ModePrefix, prefix, cached)
	}
	return buildResult(prefix, ModePrefix, cached, limit)
}

// Contains returns the titles in which query occurs, in lexical order.
// Without a substring index it falls back to scanning every title.
func (c *Completer) Contains(query string, limit int) Result {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, ok := c.cache.Get(ModeContains, query)
	if !ok {
		if c.substring != nil {
			cached = cachedResult{
				exact:  c.substring.Search(query),
				titles: c.substring.Matches(query),
			}
		} else {
			cached = scanContains(c.titles, query)
		}
		c.cache.Put(ModeContains, query, cached)
	}
	return buildResult(query, ModeContains, cached, limit)
}

// scanContains is the linear fallback used when the substring index is off.
func scanContains(titles []string, query string) cachedResult {
	var matches []string
	for _, title := range titles {
		if strings.Contains(title, query) {
			matches = append(matches, title)
		}
	}
	sort.Strings(matches)
	return cachedResult{exact: len(matches) > 0, titles: matches}
}

func buildResult(query string, mode Mode, cached cachedResult, limit int) Result {
	titles := cached.titles
	total := len(titles)
	if limit > 0 && len(titles) > limit {
		titles = titles[:limit]
	}

	ranks := utils.CreateRankList(len(titles))
	suggestions := make([]Suggestion, len(titles))
	for i, title := range titles {
		suggestions[i] = Suggestion{Title: title, Rank: ranks[i]}
	}

	return Result{
		Query:       query,
		Mode:        mode,
		Exact:       cached.exact,
		Suggestions: suggestions,
		Total:       total,
	}
}

// Titles returns the indexed titles in insertion order.
func (c *Completer) Titles() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.titles...)
}

// Dump writes the prefix tree, or the suffix tree for ModeContains, to w.
func (c *Completer) Dump(w io.Writer, mode Mode) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if mode == ModeContains {
		if c.substring == nil {
			_, err := io.WriteString(w, "substring index disabled\n")
			return err
		}
		return c.substring.Dump(w)
	}
	return c.prefix.Dump(w)
}

// Stats returns statistics about the indexes and the result cache.
func (c *Completer) Stats() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := map[string]int{
		"totalTitles":    len(c.titles),
		"maxTitleLength": c.maxRunes,
		"prefixNodes":    c.prefix.NodeCount(),
	}

	if c.substring != nil {
		stats["substringIndex"] = 1
		stats["substringNodes"] = c.substring.NodeCount()
	} else {
		stats["substringIndex"] = 0
	}

	for k, v := range c.cache.Stats() {
		stats[k] = v
	}
	return stats
}
