package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/intentd/internal/intent"
)

func TestSimilar(t *testing.T) {
	d := NewDetector(0)

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "Tokens expire server-side", "Tokens expire server-side", true},
		{"case and punctuation", "tokens EXPIRE, server-side!", "Tokens expire server-side", true},
		{"reworded overlap", "Auth tokens expire early", "Tokens expire", true},
		{"unrelated", "Tokens expire server-side", "Migrations must run in order", false},
		{"empty candidate", "Tokens expire", "", false},
		{"short tokens alone do not match", "do it on an io op", "it do on an op io", false},
		{"low overlap ratio", "retry the upload", "upload retries corrupt state", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Similar(tt.a, tt.b))
		})
	}
}

func TestSimilarThreshold(t *testing.T) {
	// Stricter threshold rejects a pair the default accepts.
	loose := NewDetector(0.5)
	strict := NewDetector(0.9)

	a := "tokens expire early sometimes"
	b := "tokens expire late"
	assert.True(t, loose.Similar(a, b))
	assert.False(t, strict.Similar(a, b))
}

func TestIsDuplicate(t *testing.T) {
	node := nodeFromDoc(t, "## Pitfalls\n\n"+
		"### Tokens expire server-side\n\nbody (source: /x)\n\n"+
		"- [ ] verify checksum before upload (source: /y)\n\n"+
		"- Preferred: use the shared pool (source: /z)\n")

	d := NewDetector(0)

	assert.True(t, d.IsDuplicate(node, "Pitfalls", "tokens expire server side"))
	assert.True(t, d.IsDuplicate(node, "Pitfalls", "verify checksum before upload"))
	assert.True(t, d.IsDuplicate(node, "Pitfalls", "use the shared pool"))
	assert.False(t, d.IsDuplicate(node, "Pitfalls", "rotate the signing key monthly"))

	// Other sections never mask a fresh fact.
	assert.False(t, d.IsDuplicate(node, "Insights", "tokens expire server side"))
}

func TestEntryTitles(t *testing.T) {
	body := "intro text\n" +
		"### A heading title\n" +
		"some body\n" +
		"- [x] done check (source: /a)\n" +
		"* starred bullet\n" +
		"- Preferred: pooled clients (source: /b)\n"

	titles := entryTitles(body)
	require.Equal(t, []string{
		"A heading title",
		"done check",
		"starred bullet",
		"pooled clients",
	}, titles)
}

func nodeFromDoc(t *testing.T, doc string) *intent.Node {
	t.Helper()
	store := intent.NewStore("", "")
	dir := t.TempDir()
	path := writeDoc(t, dir, doc)
	node, err := store.Load(path, false)
	require.NoError(t, err)
	return node
}
