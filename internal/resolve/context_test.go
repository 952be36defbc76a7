package resolve

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveContextInheritance(t *testing.T) {
	checkout := writeTree(t, map[string]string{
		"CLAUDE.md":           "## Purpose\n\nroot purpose\n\n## Pitfalls\n\n- global pitfall\n",
		"internal/AGENTS.md":  "## Pitfalls\n\n- local pitfall\n",
		"internal/file.check": "",
	})

	bundle, err := newTestResolver(t, checkout).ResolveContext(
		filepath.Join(checkout, "internal/file.check"), Options{})
	require.NoError(t, err)
	require.False(t, bundle.Uncovered)
	require.Len(t, bundle.Provenance, 2)

	// Both pitfall contributions, root before nearest, no dedup.
	var pitfalls []Contribution
	for _, c := range bundle.Contributions {
		if c.Section == "Pitfalls" {
			pitfalls = append(pitfalls, c)
		}
	}
	require.Len(t, pitfalls, 2)
	assert.Contains(t, pitfalls[0].Body, "global pitfall")
	assert.Contains(t, pitfalls[1].Body, "local pitfall")
}

func TestResolveContextSectionFilter(t *testing.T) {
	checkout := writeTree(t, map[string]string{
		"CLAUDE.md": "## Purpose\n\nwhy\n\n## Pitfalls\n\n- trap\n\n## Checks\n\n- [ ] run lint\n",
	})

	bundle, err := newTestResolver(t, checkout).ResolveContext(checkout, Options{
		Sections: []string{"Checks"},
	})
	require.NoError(t, err)
	require.Len(t, bundle.Contributions, 1)
	assert.Equal(t, "Checks", bundle.Contributions[0].Section)
}

func TestResolveContextRestatedGuidanceKept(t *testing.T) {
	// An inherited line restated locally appears twice: read-time merging
	// never deduplicates.
	checkout := writeTree(t, map[string]string{
		"CLAUDE.md":     "## Pitfalls\n\n- same warning\n",
		"sub/AGENTS.md": "## Pitfalls\n\n- same warning\n",
	})

	bundle, err := newTestResolver(t, checkout).ResolveContext(filepath.Join(checkout, "sub"), Options{})
	require.NoError(t, err)
	require.Len(t, bundle.Contributions, 2)
}

func TestResolveContextCompact(t *testing.T) {
	body := "## Purpose\n\nline one\n\nline two\n\nline three\n\nline four\n"
	checkout := writeTree(t, map[string]string{"CLAUDE.md": body})

	bundle, err := newTestResolver(t, checkout).ResolveContext(checkout, Options{
		Compact:  true,
		MaxLines: 2,
	})
	require.NoError(t, err)
	require.Len(t, bundle.Contributions, 1)
	assert.Equal(t, "line one\nline two", bundle.Contributions[0].Body)
}

func TestResolveContextUncovered(t *testing.T) {
	checkout := writeTree(t, map[string]string{"src/main.go": "package main"})

	bundle, err := newTestResolver(t, checkout).ResolveContext(filepath.Join(checkout, "src"), Options{})
	require.NoError(t, err)
	assert.True(t, bundle.Uncovered)
	assert.Empty(t, bundle.Contributions)
	assert.Contains(t, bundle.Render(checkout), "No intent coverage")
}

func TestRender(t *testing.T) {
	checkout := writeTree(t, map[string]string{
		"CLAUDE.md":     "## Purpose\n\nroot purpose\n",
		"sub/AGENTS.md": "## Purpose\n\nsub purpose\n",
	})

	bundle, err := newTestResolver(t, checkout).ResolveContext(filepath.Join(checkout, "sub"), Options{})
	require.NoError(t, err)

	text := bundle.Render(checkout)
	assert.Contains(t, text, "# Intent context:")
	assert.Contains(t, text, "1. CLAUDE.md")
	assert.Contains(t, text, "2. "+filepath.Join("sub", "AGENTS.md"))
	assert.Contains(t, text, "[from CLAUDE.md]")
	assert.Contains(t, text, "[from "+filepath.Join("sub", "AGENTS.md")+"]")

	// Root's contribution renders before the nearer node's.
	assert.Less(t,
		strings.Index(text, "root purpose"),
		strings.Index(text, "sub purpose"))
}
