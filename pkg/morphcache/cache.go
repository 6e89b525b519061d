// Package morphcache caches parsed reference trees by content hash, so a
// caller that re-renders the same markup on every request (a templated
// fragment, a repeated partial) can skip re-parsing it. Entries are stored
// compressed and re-parsed fresh on every Get, so callers always receive
// detached nodes safe to hand to morphlex.
package morphcache

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pierrec/lz4/v4"

	"github.com/morphlex/morphlex/pkg/morphnode"
)

// DefaultMaxSize is the default maximum compressed-byte budget (64 MB).
const DefaultMaxSize = 64 * 1024 * 1024

const bytesPerKB = 1024.0

// evictionSampleSize is the number of tail candidates sampled for size-aware
// eviction, trading an O(n) scan for an O(k) one.
const evictionSampleSize = 5

// Key identifies a cached reference tree, typically a content hash of the
// markup it was parsed from.
type Key string

// entry is a doubly-linked list node for LRU tracking.
type entry struct {
	key         Key
	compressed  []byte
	rawSize     int
	accessCount int64
	prev, next  *entry
}

// evictionCost mirrors the size-aware cost function used elsewhere in this
// codebase: large, rarely accessed entries are the cheapest to evict.
func (e *entry) evictionCost() float64 {
	if e.rawSize == 0 {
		return float64(e.accessCount)
	}

	sizeKB := float64(e.rawSize) / bytesPerKB
	if sizeKB < 1 {
		sizeKB = 1
	}

	return float64(e.accessCount) / sizeKB
}

// TreeCache is a size-bounded, content-addressed cache of rendered,
// LZ4-compressed reference markup. It never hands out shared node pointers:
// every Get re-parses its own detached tree.
type TreeCache struct {
	mu          sync.RWMutex
	entries     map[Key]*entry
	head, tail  *entry
	maxSize     int64
	currentSize int64

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a TreeCache bounded to maxSize compressed bytes. A
// non-positive maxSize falls back to DefaultMaxSize.
func New(maxSize int64) *TreeCache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	return &TreeCache{
		entries: make(map[Key]*entry),
		maxSize: maxSize,
	}
}

// Get returns a freshly parsed, detached copy of the reference sequence
// stored under key, or false if absent.
func (c *TreeCache) Get(key Key) ([]*morphnode.Node, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		c.mu.Unlock()

		return nil, false
	}

	c.hits.Add(1)
	e.accessCount++
	c.moveToFront(e)
	compressed := e.compressed
	rawSize := e.rawSize
	c.mu.Unlock()

	raw := make([]byte, rawSize)
	if _, err := lz4.UncompressBlock(compressed, raw); err != nil {
		return nil, false
	}

	nodes, err := morphnode.ParseFragment(string(raw))
	if err != nil {
		return nil, false
	}

	return nodes, true
}

// Put renders and stores nodes under key, compressing the serialized form
// with LZ4. Entries larger than the whole cache budget are not stored.
func (c *TreeCache) Put(key Key, nodes []*morphnode.Node) error {
	var rendered string

	for _, n := range nodes {
		rendered += morphnode.Render(n)
	}

	raw := []byte(rendered)
	rawSize := len(raw)

	compressed := make([]byte, lz4.CompressBlockBound(rawSize))

	written, err := lz4.CompressBlock(raw, compressed, nil)
	if err != nil {
		return fmt.Errorf("morphcache: compress: %w", err)
	}

	if written == 0 {
		// Incompressible or empty input; lz4 reports this by returning 0.
		compressed = raw
	} else {
		compressed = compressed[:written]
	}

	size := int64(len(compressed))
	if size > c.maxSize {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.currentSize -= int64(len(e.compressed))
		e.compressed = compressed
		e.rawSize = rawSize
		e.accessCount++
		c.currentSize += size
		c.moveToFront(e)

		return nil
	}

	for c.currentSize+size > c.maxSize && c.tail != nil {
		c.evictLowestCost()
	}

	e := &entry{key: key, compressed: compressed, rawSize: rawSize, accessCount: 1}
	c.entries[key] = e
	c.currentSize += size
	c.addToFront(e)

	return nil
}

// Stats reports cumulative cache performance counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Entries     int
	CurrentSize int64
	MaxSize     int64
}

// HitRate returns the fraction of Get calls that found an entry.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// Stats returns a snapshot of the cache's counters.
func (c *TreeCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Entries:     len(c.entries),
		CurrentSize: c.currentSize,
		MaxSize:     c.maxSize,
	}
}

// CacheHits returns the cumulative number of Get calls that found an entry,
// satisfying observability.CacheStatsProvider.
func (c *TreeCache) CacheHits() int64 {
	return c.hits.Load()
}

// CacheMisses returns the cumulative number of Get calls that found no
// entry, satisfying observability.CacheStatsProvider.
func (c *TreeCache) CacheMisses() int64 {
	return c.misses.Load()
}

// Clear removes all entries.
func (c *TreeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]*entry)
	c.head, c.tail = nil, nil
	c.currentSize = 0
}

func (c *TreeCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}

	c.removeFromList(e)
	c.addToFront(e)
}

func (c *TreeCache) addToFront(e *entry) {
	e.prev = nil
	e.next = c.head

	if c.head != nil {
		c.head.prev = e
	}

	c.head = e

	if c.tail == nil {
		c.tail = e
	}
}

func (c *TreeCache) removeFromList(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}

	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *TreeCache) evictLowestCost() {
	if c.tail == nil {
		return
	}

	var candidates [evictionSampleSize]*entry

	count := 0

	for cur := c.tail; cur != nil && count < evictionSampleSize; cur = cur.prev {
		candidates[count] = cur
		count++
	}

	victim := candidates[0]
	lowestCost := victim.evictionCost()

	for i := 1; i < count; i++ {
		if cost := candidates[i].evictionCost(); cost < lowestCost {
			lowestCost = cost
			victim = candidates[i]
		}
	}

	c.removeFromList(victim)
	delete(c.entries, victim.key)
	c.currentSize -= int64(len(victim.compressed))
}
