package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPutRoundTrip(t *testing.T) {
	c, err := Open(":memory:", "SHA1")
	require.NoError(t, err)
	defer c.Close()

	mtime := time.Now()

	_, ok := c.Get("/tree/a.txt", 3, mtime)
	assert.False(t, ok, "empty cache should miss")

	c.Put("/tree/a.txt", 3, mtime, "a9993e364706816aba3e25717850c26c9cd0d89d")

	digest, ok := c.Get("/tree/a.txt", 3, mtime)
	require.True(t, ok)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", digest)
}

func TestStaleEntriesMiss(t *testing.T) {
	c, err := Open(":memory:", "SHA1")
	require.NoError(t, err)
	defer c.Close()

	mtime := time.Now()
	c.Put("/tree/a.txt", 3, mtime, "aaaa")

	_, ok := c.Get("/tree/a.txt", 4, mtime)
	assert.False(t, ok, "size change should miss")

	_, ok = c.Get("/tree/a.txt", 3, mtime.Add(time.Second))
	assert.False(t, ok, "mtime change should miss")
}

func TestAlgorithmsAreIsolated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")
	mtime := time.Now()

	sha1Cache, err := Open(path, "SHA1")
	require.NoError(t, err)
	sha1Cache.Put("/tree/a.txt", 3, mtime, "sha1digest")
	require.NoError(t, sha1Cache.Close())

	md5Cache, err := Open(path, "MD5")
	require.NoError(t, err)
	defer md5Cache.Close()

	_, ok := md5Cache.Get("/tree/a.txt", 3, mtime)
	assert.False(t, ok, "entries of another algorithm must not be served")
}

func TestPutReplaces(t *testing.T) {
	c, err := Open(":memory:", "SHA1")
	require.NoError(t, err)
	defer c.Close()

	old := time.Now()
	newer := old.Add(time.Minute)

	c.Put("/tree/a.txt", 3, old, "olddigest")
	c.Put("/tree/a.txt", 5, newer, "newdigest")

	_, ok := c.Get("/tree/a.txt", 3, old)
	assert.False(t, ok)

	digest, ok := c.Get("/tree/a.txt", 5, newer)
	require.True(t, ok)
	assert.Equal(t, "newdigest", digest)
}

func TestDefaultPathIsPerRoot(t *testing.T) {
	a, err := DefaultPath("/some/tree")
	require.NoError(t, err)
	b, err := DefaultPath("/other/tree")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, ".db", filepath.Ext(a))
}
