package bgzf

import "github.com/biogo/store/llrb"

// blockCacheEntry is one cached block, keyed by its file start offset
// in the owning Reader's cache map.
type blockCacheEntry struct {
	start  int64
	rawLen int
	buffer []byte
	seq    int64
}

// recencyKey orders blockCacheEntry values by last-access sequence
// number so the least-recently-used entry is always the minimum
// element of the tree, giving the Reader's cache genuine LRU eviction
// the same way ShardInfo indexes shards with an ordered tree.
type recencyKey struct {
	seq   int64
	start int64
}

func (k recencyKey) Compare(other llrb.Comparable) int {
	o := other.(recencyKey)
	switch {
	case k.seq < o.seq:
		return -1
	case k.seq > o.seq:
		return 1
	default:
		return int(k.start - o.start)
	}
}

// blockCache is a Reader's private LRU cache of decoded blocks, keyed
// by block start offset.
type blockCache struct {
	capacity int
	entries  map[int64]*blockCacheEntry
	recency  llrb.Tree
	nextSeq  int64
}

func newBlockCache(capacity int) *blockCache {
	return &blockCache{
		capacity: capacity,
		entries:  make(map[int64]*blockCacheEntry, capacity),
	}
}

func (c *blockCache) get(start int64) (*blockCacheEntry, bool) {
	e, ok := c.entries[start]
	if !ok {
		return nil, false
	}
	c.touch(e)
	return e, true
}

// touch marks e as the most recently used entry.
func (c *blockCache) touch(e *blockCacheEntry) {
	c.recency.Delete(recencyKey{seq: e.seq, start: e.start})
	e.seq = c.nextSeq
	c.nextSeq++
	c.recency.Insert(recencyKey{seq: e.seq, start: e.start})
}

// put inserts or replaces the cached block for start, evicting the
// least-recently-used entry first if the cache is already at
// capacity.
func (c *blockCache) put(start int64, buffer []byte, rawLen int) {
	if old, ok := c.entries[start]; ok {
		c.recency.Delete(recencyKey{seq: old.seq, start: old.start})
		delete(c.entries, start)
	}
	for len(c.entries) >= c.capacity {
		c.evictOldest()
	}
	e := &blockCacheEntry{start: start, rawLen: rawLen, buffer: buffer, seq: c.nextSeq}
	c.nextSeq++
	c.entries[start] = e
	c.recency.Insert(recencyKey{seq: e.seq, start: e.start})
}

func (c *blockCache) evictOldest() {
	min := c.recency.Min()
	if min == nil {
		// Nothing left to evict but somehow still at/over capacity;
		// shouldn't happen since recency and entries stay in lock
		// step, but don't loop forever if it does.
		for start := range c.entries {
			delete(c.entries, start)
			return
		}
		return
	}
	k := min.(recencyKey)
	c.recency.DeleteMin()
	delete(c.entries, k.start)
}
