// Package cache implements the per-node set-associative MESI cache.
//
// Tag storage, set indexing, and LRU victim selection are delegated to
// Akita's cache directory (github.com/sarchlab/akita/v4/mem/cache). The MESI
// line state and the coherence-specific LRU stamp
// (driven by the interconnect's logical step counter, not wall-clock time)
// live in a parallel metadata array indexed identically to Akita's blocks.
package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// State is one of the four MESI line states.
type State int

const (
	// Invalid means the line holds no usable data.
	Invalid State = iota
	// Shared means the line may be read but not written; other caches may
	// hold the same line SHARED.
	Shared
	// Exclusive means this cache holds the only cached copy, clean.
	Exclusive
	// Modified means this cache holds the only cached copy, and it has
	// been locally written (dirty).
	Modified
)

// String renders a State the way the summary dump prints it.
func (s State) String() string {
	switch s {
	case Invalid:
		return "INVALID"
	case Shared:
		return "SHARED"
	case Exclusive:
		return "EXCLUSIVE"
	case Modified:
		return "MODIFIED"
	default:
		return "UNKNOWN"
	}
}

// Line is a read-only view of one cache line, returned by Lookup and used
// by the summary printer: tag + validity + MESI state + LRU stamp.
type Line struct {
	Set      int
	Way      int
	Tag      uint64
	Valid    bool
	Dirty    bool
	State    State
	LastUsed uint64
}

// Config holds the set-associative cache geometry. S is the number of
// set-index bits, E is the associativity (lines per set), B is the number
// of block-offset bits.
type Config struct {
	S int
	E int
	B int
}

// NumSets returns 2^S, the number of sets in the cache.
func (c Config) NumSets() int {
	return 1 << uint(c.S)
}

// BlockSize returns 2^B, the number of bytes covered by one line.
func (c Config) BlockSize() int {
	return 1 << uint(c.B)
}

// lineMeta is the coherence metadata kept alongside each Akita block, index
// for index (SetID*Associativity + WayID).
type lineMeta struct {
	state    State
	lastUsed uint64
}

// Statistics holds the per-node counters reported at the end of a run:
// hits, misses, evictions, and dirty-evictions.
type Statistics struct {
	Hits           uint64
	Misses         uint64
	Evictions      uint64
	DirtyEvictions uint64
}

// Cache is one node's set-associative MESI cache plus its hit/miss/eviction
// counters. ProcessorID identifies the owning node.
type Cache struct {
	ProcessorID int
	config      Config
	directory   *akitacache.DirectoryImpl
	meta        []lineMeta
	stats       Statistics
}

// New creates a cache for the given processor with the given geometry.
func New(processorID int, config Config) *Cache {
	numSets := config.NumSets()
	associativity := config.E
	blockSize := config.BlockSize()

	meta := make([]lineMeta, numSets*associativity)

	return &Cache{
		ProcessorID: processorID,
		config:      config,
		directory: akitacache.NewDirectory(
			numSets,
			associativity,
			blockSize,
			akitacache.NewLRUVictimFinder(),
		),
		meta: meta,
	}
}

// Config returns the cache's geometry.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns the current hit/miss/eviction counters.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// blockAddr truncates an address down to its line-aligned block address.
func (c *Cache) blockAddr(address uint64) uint64 {
	blockSize := uint64(c.config.BlockSize())
	return (address / blockSize) * blockSize
}

func (c *Cache) metaIndex(setID, wayID int) int {
	return setID*c.config.E + wayID
}

// Lookup returns the valid line matching address's tag, or ok=false if no
// such line is cached. Akita's directory only reports blocks with IsValid
// set; since Invalidate leaves IsValid untouched, a line that has been
// invalidated still matches here, with State == Invalid.
func (c *Cache) Lookup(address uint64) (Line, bool) {
	block := c.directory.Lookup(0, c.blockAddr(address))
	if block == nil || !block.IsValid {
		return Line{}, false
	}
	return c.lineFromBlock(block), true
}

// Touch refreshes a line's LRU stamp to the current logical step. It is the
// interconnect's responsibility to pass the current timer value.
func (c *Cache) Touch(address uint64, timer uint64) {
	block := c.directory.Lookup(0, c.blockAddr(address))
	if block == nil || !block.IsValid {
		return
	}
	c.directory.Visit(block)
	c.meta[c.metaIndex(block.SetID, block.WayID)].lastUsed = timer
}

// RecordHit increments the hit counter. Handlers call this alongside Touch
// on every cache hit.
func (c *Cache) RecordHit() {
	c.stats.Hits++
}

// InstallResult reports what happened installing a new line, for traffic
// accounting (the interconnect increments mem_reads on every install).
type InstallResult struct {
	Evicted      bool
	EvictedDirty bool
	EvictedAddr  uint64
}

// Install writes a new line for address into its mapped set, evicting an LRU
// victim if necessary, and counts the miss. If any line in the set is
// invalid, that slot is used in preference to any valid line; otherwise the
// line with the smallest LastUsed stamp is evicted.
func (c *Cache) Install(address uint64, state State, timer uint64) InstallResult {
	c.stats.Misses++

	blockAddr := c.blockAddr(address)
	victim := c.directory.FindVictim(blockAddr)

	result := InstallResult{}
	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted = true
		result.EvictedAddr = victim.Tag

		meta := &c.meta[c.metaIndex(victim.SetID, victim.WayID)]
		if meta.state == Modified {
			c.stats.DirtyEvictions++
			result.EvictedDirty = true
		}
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = state == Modified

	meta := &c.meta[c.metaIndex(victim.SetID, victim.WayID)]
	meta.state = state
	meta.lastUsed = timer

	c.directory.Visit(victim)

	return result
}

// SetState updates an existing line's MESI state. When the new state is
// MODIFIED, the line's dirty bit is set. Returns false if no line for
// address is currently cached.
func (c *Cache) SetState(address uint64, state State) bool {
	block := c.directory.Lookup(0, c.blockAddr(address))
	if block == nil || !block.IsValid {
		return false
	}

	meta := &c.meta[c.metaIndex(block.SetID, block.WayID)]
	meta.state = state
	if state == Modified {
		block.IsDirty = true
	}
	return true
}

// Invalidate transitions a cached line to INVALID. Matching the source
// behavior this spec preserves, the underlying Akita block's IsValid bit is
// left untouched — only the MESI state is cleared. A line that was never
// cached is a no-op.
func (c *Cache) Invalidate(address uint64) {
	block := c.directory.Lookup(0, c.blockAddr(address))
	if block == nil || !block.IsValid {
		return
	}
	c.meta[c.metaIndex(block.SetID, block.WayID)].state = Invalid
}

// Lines returns a view of every line the cache considers valid, in
// set-then-way order, for the summary dump.
func (c *Cache) Lines() []Line {
	var lines []Line
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid {
				lines = append(lines, c.lineFromBlock(block))
			}
		}
	}
	return lines
}

func (c *Cache) lineFromBlock(block *akitacache.Block) Line {
	meta := c.meta[c.metaIndex(block.SetID, block.WayID)]
	return Line{
		Set:      block.SetID,
		Way:      block.WayID,
		Tag:      block.Tag,
		Valid:    block.IsValid,
		Dirty:    block.IsDirty,
		State:    meta.state,
		LastUsed: meta.lastUsed,
	}
}
