package sanitize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedProjects(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()

	t.Run("parses colon-separated roots", func(t *testing.T) {
		t.Setenv(AllowedProjectsVar, a+":"+b)
		allowed, err := AllowedProjects()
		require.NoError(t, err)
		assert.Equal(t, []string{Canonical(a), Canonical(b)}, allowed)
	})

	t.Run("empty entries are skipped", func(t *testing.T) {
		t.Setenv(AllowedProjectsVar, ":"+a+"::")
		allowed, err := AllowedProjects()
		require.NoError(t, err)
		assert.Len(t, allowed, 1)
	})

	t.Run("unset is an error", func(t *testing.T) {
		t.Setenv(AllowedProjectsVar, "")
		_, err := AllowedProjects()
		assert.ErrorIs(t, err, ErrAllowlistMissing)
	})

	t.Run("only separators is an error", func(t *testing.T) {
		t.Setenv(AllowedProjectsVar, ":::")
		_, err := AllowedProjects()
		assert.ErrorIs(t, err, ErrAllowlistMissing)
	})
}

func TestCanonicalResolvesSymlinks(t *testing.T) {
	real := t.TempDir()
	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(real, link))

	assert.Equal(t, Canonical(real), Canonical(link))
}

func TestValidateProjectRoot(t *testing.T) {
	root := Canonical(t.TempDir())
	allowed := []string{root}

	got, err := ValidateProjectRoot(root, allowed)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	_, err = ValidateProjectRoot(t.TempDir(), allowed)
	assert.ErrorIs(t, err, ErrProjectNotAllowed)

	_, err = ValidateProjectRoot("", allowed)
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestValidateProjectRootSymlinkAlias(t *testing.T) {
	real := t.TempDir()
	link := filepath.Join(t.TempDir(), "alias")
	require.NoError(t, os.Symlink(real, link))

	// The symlinked spelling of an allowed root is still allowed.
	got, err := ValidateProjectRoot(link, []string{Canonical(real)})
	require.NoError(t, err)
	assert.Equal(t, Canonical(real), got)
}

func TestResolveWithinRoot(t *testing.T) {
	root := Canonical(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0755))

	t.Run("relative stays inside", func(t *testing.T) {
		got, err := ResolveWithinRoot(root, "sub")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "sub"), got)
	})

	t.Run("root itself is inside", func(t *testing.T) {
		got, err := ResolveWithinRoot(root, root)
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})

	t.Run("dot-dot traversal rejected", func(t *testing.T) {
		_, err := ResolveWithinRoot(root, "sub/../../outside")
		assert.ErrorIs(t, err, ErrPathTraversal)
	})

	t.Run("absolute outside rejected", func(t *testing.T) {
		_, err := ResolveWithinRoot(root, Canonical(t.TempDir()))
		assert.ErrorIs(t, err, ErrPathTraversal)
	})

	t.Run("symlink escape rejected", func(t *testing.T) {
		outside := t.TempDir()
		escape := filepath.Join(root, "escape")
		require.NoError(t, os.Symlink(outside, escape))
		_, err := ResolveWithinRoot(root, "escape")
		assert.ErrorIs(t, err, ErrPathTraversal)
	})

	t.Run("empty rejected", func(t *testing.T) {
		_, err := ResolveWithinRoot(root, "")
		assert.ErrorIs(t, err, ErrEmptyPath)
	})
}

func TestMatchProject(t *testing.T) {
	allowed := []string{"/srv/projects/api", "/srv/projects/web"}

	got, err := MatchProject("api", allowed)
	require.NoError(t, err)
	assert.Equal(t, "/srv/projects/api", got)

	got, err = MatchProject("/srv/projects/web", allowed)
	require.NoError(t, err)
	assert.Equal(t, "/srv/projects/web", got)

	_, err = MatchProject("unknown", allowed)
	assert.ErrorIs(t, err, ErrProjectNotAllowed)
}

func TestMatchProjectPrefersExact(t *testing.T) {
	// A root whose basename equals another root's full path never shadows
	// the exact match.
	allowed := []string{"/a/api", "/b/api"}
	got, err := MatchProject("/b/api", allowed)
	require.NoError(t, err)
	assert.Equal(t, "/b/api", got)
}
