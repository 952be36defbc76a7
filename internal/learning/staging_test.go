package learning

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueCaptureAndDrain(t *testing.T) {
	checkout := t.TempDir()
	writeDoc(t, checkout, "## Insights\n\nseed\n")

	first, err := QueueCapture(checkout, Entry{
		Type:       TypeInsight,
		Title:      "Queue order is FIFO",
		SourcePath: checkout,
	})
	require.NoError(t, err)
	second, err := QueueCapture(checkout, Entry{
		Type:       TypeInsight,
		Title:      "Drains remove staged files",
		SourcePath: checkout,
	})
	require.NoError(t, err)

	integrator := newTestIntegrator(t, checkout)
	results, err := DrainStaged(context.Background(), checkout, integrator, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, first, results[0].File)
	assert.Equal(t, second, results[1].File)
	for _, r := range results {
		assert.Empty(t, r.Err)
		assert.Equal(t, OutcomeIntegrated, r.Result.Outcome)
	}

	// Integrated captures leave the queue.
	assert.NoFileExists(t, first)
	assert.NoFileExists(t, second)

	raw, err := os.ReadFile(filepath.Join(checkout, "AGENTS.md"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Queue order is FIFO")
	assert.Contains(t, string(raw), "Drains remove staged files")
}

func TestQueueCaptureValidates(t *testing.T) {
	_, err := QueueCapture(t.TempDir(), Entry{Type: "nope", Title: "t", SourcePath: "/p"})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestDrainStagedEmpty(t *testing.T) {
	results, err := DrainStaged(context.Background(), t.TempDir(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDrainStagedKeepsUnparseable(t *testing.T) {
	checkout := t.TempDir()
	writeDoc(t, checkout, "## Insights\n\nseed\n")

	dir := filepath.Join(checkout, ".intent", "learnings")
	require.NoError(t, os.MkdirAll(dir, 0755))
	bad := filepath.Join(dir, "000-bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))

	integrator := newTestIntegrator(t, checkout)
	results, err := DrainStaged(context.Background(), checkout, integrator, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Err)
	assert.FileExists(t, bad)
}
