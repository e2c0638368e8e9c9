package bgzf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := newBlockCache(2)
	c.put(0, []byte("a"), 10)
	c.put(10, []byte("b"), 10)

	// Touch the first entry so the second becomes least-recently-used.
	_, ok := c.get(0)
	require.True(t, ok)

	c.put(20, []byte("c"), 10)

	_, ok = c.get(10)
	assert.False(t, ok, "entry at offset 10 should have been evicted")

	e, ok := c.get(0)
	assert.True(t, ok)
	assert.Equal(t, "a", string(e.buffer))

	e, ok = c.get(20)
	assert.True(t, ok)
	assert.Equal(t, "c", string(e.buffer))
}

func TestBlockCacheReplaceExisting(t *testing.T) {
	c := newBlockCache(1)
	c.put(0, []byte("a"), 10)
	c.put(0, []byte("b"), 11)

	e, ok := c.get(0)
	require.True(t, ok)
	assert.Equal(t, "b", string(e.buffer))
	assert.Equal(t, 11, e.rawLen)
}
