package grid

import (
	"container/list"
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"

	"github.com/jengzang/geofield-backend-go/internal/spatial"
)

// DefaultCacheSize is the number of grids a Cache keeps
const DefaultCacheSize = 32

// Key identifies a grid by boundary content, spacing, colour and sampling
type Key uint64

// KeyFor hashes the grid inputs. Two boundaries with the same vertices in
// the same order share a key.
func KeyFor(boundary []spatial.Point, spacingMeters float64, color string, opts Options) Key {
	opts = opts.withDefaults()
	buf := make([]byte, 0, 16*len(boundary)+32+len(color))
	for _, p := range boundary {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.Lat))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p.Lon))
	}
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(spacingMeters))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(opts.Samples))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(opts.MaxLines))
	buf = append(buf, color...)
	return Key(xxh3.Hash(buf))
}

type cacheEntry struct {
	key  Key
	grid *Grid
}

// Cache memoises generated grids with least recently used eviction. It
// is not safe for concurrent use.
type Cache struct {
	size    int
	order   *list.List
	entries map[Key]*list.Element
	hits    int
	misses  int
}

// NewCache returns a cache holding up to size grids
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{
		size:    size,
		order:   list.New(),
		entries: make(map[Key]*list.Element),
	}
}

// Generate returns the cached grid for the inputs or builds and stores it.
// Every call returns its own copy. Errors are not cached.
func (c *Cache) Generate(boundary []spatial.Point, spacingMeters float64, color string, opts Options) (*Grid, error) {
	key := KeyFor(boundary, spacingMeters, color, opts)
	if el, ok := c.entries[key]; ok {
		c.hits++
		c.order.MoveToFront(el)
		return el.Value.(*cacheEntry).grid.Clone(), nil
	}

	c.misses++
	g, err := Generate(boundary, spacingMeters, color, opts)
	if err != nil {
		return nil, err
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, grid: g})
	for c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
	return g.Clone(), nil
}

// Len returns the number of cached grids
func (c *Cache) Len() int {
	return c.order.Len()
}

// Stats returns hit and miss counts
func (c *Cache) Stats() (hits, misses int) {
	return c.hits, c.misses
}

// Clear drops every cached grid
func (c *Cache) Clear() {
	c.order.Init()
	c.entries = make(map[Key]*list.Element)
}
