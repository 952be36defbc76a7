package intent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultChildName)
	require.NoError(t, os.WriteFile(path, []byte("## Purpose\n\nwhy\n"), 0644))

	store := NewStore("", "")
	node, err := store.Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, path, node.Path)
	assert.Equal(t, dir, node.ScopeDir)
	assert.False(t, node.IsRoot)
	assert.Empty(t, node.Warnings)
	require.Len(t, node.Sections, 1)
	assert.Equal(t, "Purpose", node.Sections[0].Heading)
}

func TestStoreLoadMalformedDegrades(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultChildName)
	require.NoError(t, os.WriteFile(path, []byte("## Pitfalls\n\n## Pitfalls\n"), 0644))

	store := NewStore("", "")
	node, err := store.Load(path, false)
	require.NoError(t, err)

	assert.Empty(t, node.Sections)
	require.Len(t, node.Warnings, 1)
	assert.Contains(t, node.Warnings[0], "duplicate heading")
}

func TestStoreNodeAtAbsent(t *testing.T) {
	store := NewStore("", "")
	node, err := store.NodeAt(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, node)
}

func TestStoreRootAt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultRootName), []byte("## Purpose\n\ntop\n"), 0644))

	store := NewStore("", "")
	node, err := store.RootAt(dir)
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.True(t, node.IsRoot)
}

func TestStoreCustomNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "NOTES.md"), []byte("## Purpose\n\nx\n"), 0644))

	store := NewStore("TOP.md", "NOTES.md")
	node, err := store.NodeAt(dir)
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, "NOTES.md", filepath.Base(node.Path))
}
