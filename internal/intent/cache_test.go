package intent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCacheServesAndInvalidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultChildName)
	require.NoError(t, os.WriteFile(path, []byte("## Purpose\n\nfirst\n"), 0644))

	cache, err := NewCache(NewStore("", ""), zap.NewNop())
	require.NoError(t, err)
	defer cache.Close()

	node, err := cache.NodeAt(dir)
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Contains(t, node.Sections[0].Body, "first")

	// Cached: a second read returns the same parsed node.
	again, err := cache.NodeAt(dir)
	require.NoError(t, err)
	assert.Same(t, node, again)

	// Explicit invalidation forces a reload.
	require.NoError(t, os.WriteFile(path, []byte("## Purpose\n\nsecond\n"), 0644))
	cache.Invalidate(path)

	reloaded, err := cache.NodeAt(dir)
	require.NoError(t, err)
	assert.Contains(t, reloaded.Sections[0].Body, "second")
}

func TestCacheAbsentDocumentNotCached(t *testing.T) {
	dir := t.TempDir()

	cache, err := NewCache(NewStore("", ""), zap.NewNop())
	require.NoError(t, err)
	defer cache.Close()

	node, err := cache.NodeAt(dir)
	require.NoError(t, err)
	assert.Nil(t, node)

	// Document created after the miss is visible immediately.
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultChildName), []byte("## Purpose\n\nnow\n"), 0644))
	node, err = cache.NodeAt(dir)
	require.NoError(t, err)
	require.NotNil(t, node)
}
