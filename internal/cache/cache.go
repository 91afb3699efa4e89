// Package cache holds recently generated answers so repeated customer
// questions skip the completion API. Matching is by normalized text with a
// word-overlap fallback for rephrasings.
package cache

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// Journal persists cache activity for offline inspection. Implemented by
// database.Store; may be nil to disable journaling.
type Journal interface {
	RecordCacheWrite(ctx context.Context, normalizedQuery, answer string) error
	RecordCacheHit(ctx context.Context, normalizedQuery string) error
}

type entry struct {
	response string
	storedAt time.Time
}

// Cache is an in-memory response cache with TTL expiry, a frequency gate for
// admission, and least-frequent eviction when full. All methods are safe for
// concurrent use.
type Cache struct {
	journal   Journal
	logger    *slog.Logger
	ttl       time.Duration
	minFreq   int
	maxSize   int
	threshold float64

	mu        sync.Mutex
	entries   map[string]entry
	frequency map[string]int
}

// Options configure a Cache.
type Options struct {
	TTL                 time.Duration
	MinFrequency        int
	MaxSize             int
	SimilarityThreshold float64
}

// New creates a cache. journal may be nil.
func New(opts Options, journal Journal, logger *slog.Logger) *Cache {
	return &Cache{
		journal:   journal,
		logger:    logger.With("component", "cache"),
		ttl:       opts.TTL,
		minFreq:   opts.MinFrequency,
		maxSize:   opts.MaxSize,
		threshold: opts.SimilarityThreshold,
		entries:   make(map[string]entry),
		frequency: make(map[string]int),
	}
}

// Normalize lowercases the query, strips punctuation while keeping letters
// and digits in any alphabet, and collapses runs of whitespace. Punctuation
// goes first so stripping it cannot reopen whitespace runs; normalizing an
// already normalized query is a no-op.
func Normalize(query string) string {
	normalized := punctuationRe.ReplaceAllString(strings.ToLower(query), "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(normalized, " "))
}

// Similar reports whether two normalized queries share at least threshold of
// the shorter query's words.
func Similar(a, b string, threshold float64) bool {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return false
	}

	shared := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			shared++
		}
	}

	shorter := len(wordsA)
	if len(wordsB) < shorter {
		shorter = len(wordsB)
	}
	return float64(shared)/float64(shorter) >= threshold
}

// Get returns the cached answer for query, trying an exact match on the
// normalized text first and a word-overlap match second. Expired entries
// found along the way are removed. Every lookup counts toward the query's
// admission frequency, hit or miss.
func (c *Cache) Get(ctx context.Context, query string) (string, bool) {
	normalized := Normalize(query)
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[normalized]; ok {
		if now.Sub(e.storedAt) < c.ttl {
			c.frequency[normalized]++
			c.recordHit(ctx, normalized)
			c.logger.DebugContext(ctx, "Cache hit", "query", normalized)
			return e.response, true
		}
		delete(c.entries, normalized)
	}

	for key, e := range c.entries {
		if !Similar(normalized, key, c.threshold) {
			continue
		}
		if now.Sub(e.storedAt) < c.ttl {
			c.frequency[key]++
			c.recordHit(ctx, key)
			c.logger.DebugContext(ctx, "Cache hit for similar query", "query", normalized, "matched", key)
			return e.response, true
		}
		delete(c.entries, key)
	}

	c.frequency[normalized]++
	return "", false
}

// Put stores an answer for query once the query has been seen at least
// MinFrequency times. When the cache is full the least frequently requested
// entries make room first.
func (c *Cache) Put(ctx context.Context, query, response string) {
	normalized := Normalize(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frequency[normalized] < c.minFreq {
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictLeastFrequent(len(c.entries) - c.maxSize + 1)
	}

	c.entries[normalized] = entry{response: response, storedAt: time.Now()}
	c.logger.DebugContext(ctx, "Cached response", "query", normalized)

	if c.journal != nil {
		if err := c.journal.RecordCacheWrite(ctx, normalized, response); err != nil {
			c.logger.WarnContext(ctx, "Failed to journal cache write", "error", err)
		}
	}
}

// Sweep removes all expired entries and returns how many were dropped.
func (c *Cache) Sweep(ctx context.Context) int {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.logger.InfoContext(ctx, "Swept expired cache entries", "removed", removed)
	}
	return removed
}

// QueryFrequency is one query with its lookup count.
type QueryFrequency struct {
	Query string
	Count int
}

// Stats is a point-in-time summary of cache state.
type Stats struct {
	Entries      int
	MostFrequent []QueryFrequency
}

// Stats reports the entry count and the five most frequent queries.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	freqs := make([]QueryFrequency, 0, len(c.frequency))
	for q, n := range c.frequency {
		freqs = append(freqs, QueryFrequency{Query: q, Count: n})
	}
	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].Count != freqs[j].Count {
			return freqs[i].Count > freqs[j].Count
		}
		return freqs[i].Query < freqs[j].Query
	})
	if len(freqs) > 5 {
		freqs = freqs[:5]
	}

	return Stats{Entries: len(c.entries), MostFrequent: freqs}
}

// evictLeastFrequent drops n cached entries with the lowest lookup counts.
// Caller holds the lock.
func (c *Cache) evictLeastFrequent(n int) {
	type candidate struct {
		key  string
		freq int
	}
	candidates := make([]candidate, 0, len(c.entries))
	for key := range c.entries {
		candidates = append(candidates, candidate{key: key, freq: c.frequency[key]})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].freq != candidates[j].freq {
			return candidates[i].freq < candidates[j].freq
		}
		return candidates[i].key < candidates[j].key
	})

	for i := 0; i < n && i < len(candidates); i++ {
		delete(c.entries, candidates[i].key)
		c.logger.Debug("Evicted least frequent cache entry", "query", candidates[i].key)
	}
}

func (c *Cache) recordHit(ctx context.Context, normalized string) {
	if c.journal == nil {
		return
	}
	if err := c.journal.RecordCacheHit(ctx, normalized); err != nil {
		c.logger.WarnContext(ctx, "Failed to journal cache hit", "error", err)
	}
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}
