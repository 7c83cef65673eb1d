package corpus

import (
	"fmt"
	"testing"

	"github.com/krotik/annisgraph/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheLoadsOnceAndPins(t *testing.T) {
	loads := 0
	loader := func(path string) (*Image, error) {
		loads++
		return New(), nil
	}

	c := NewCache(nil, loader)

	img1, err := c.Acquire("corpus-a")
	require.NoError(t, err)
	img2, err := c.Acquire("corpus-a")
	require.NoError(t, err)

	assert.Same(t, img1, img2)
	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, c.Len())

	c.Release("corpus-a")
	c.Release("corpus-a")
}

func TestCacheEvictsLeastRecentlyUsedWhenUnpinned(t *testing.T) {
	old := config.Config[config.DBCacheMaxBytes]
	defer func() { config.Config[config.DBCacheMaxBytes] = old }()
	config.Config[config.DBCacheMaxBytes] = int64(1)

	loader := func(path string) (*Image, error) { return New(), nil }
	c := NewCache(nil, loader)

	for i := 0; i < 3; i++ {
		path := fmt.Sprintf("corpus-%d", i)
		_, err := c.Acquire(path)
		require.NoError(t, err)
		c.Release(path)
	}

	assert.LessOrEqual(t, c.Len(), 1)
}

func TestCacheNeverEvictsPinnedEntries(t *testing.T) {
	old := config.Config[config.DBCacheMaxBytes]
	defer func() { config.Config[config.DBCacheMaxBytes] = old }()
	config.Config[config.DBCacheMaxBytes] = int64(1)

	loader := func(path string) (*Image, error) { return New(), nil }
	c := NewCache(nil, loader)

	first, err := c.Acquire("pinned")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		path := fmt.Sprintf("corpus-%d", i)
		_, err := c.Acquire(path)
		require.NoError(t, err)
		c.Release(path)
	}

	img, err := c.Acquire("pinned")
	require.NoError(t, err)
	assert.NotNil(t, img)
	assert.Same(t, first, img, "pinned entry was evicted and reloaded")
}
