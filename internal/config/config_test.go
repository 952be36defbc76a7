package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useConfigHome points HOME at a temp dir and returns the config path
// inside the allowed directory.
func useConfigHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "intentd")
	require.NoError(t, os.MkdirAll(dir, 0755))
	return filepath.Join(dir, "config.yaml")
}

func TestLoadDefaults(t *testing.T) {
	useConfigHome(t)

	cfg, err := LoadWithFile("")
	require.NoError(t, err)

	assert.Equal(t, "CLAUDE.md", cfg.Documents.RootName)
	assert.Equal(t, "AGENTS.md", cfg.Documents.ChildName)
	assert.Equal(t, 0.6, cfg.Dedup.Threshold)
	assert.Equal(t, 15*time.Minute, cfg.Session.InjectionWindow.Duration())
	assert.Equal(t, 90, cfg.Staleness.MaxAgeDays)
	assert.Equal(t, 30, cfg.Staleness.WindowDays)
	assert.Equal(t, 20, cfg.Staleness.MaxCommits)
	assert.Equal(t, 4*1024, cfg.Validation.SoftSizeLimit)
	assert.Equal(t, 8*1024, cfg.Validation.HardSizeLimit)
	assert.Equal(t, 5, cfg.Validation.MaxBullets)
	assert.False(t, cfg.Gate.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Gate.Timeout.Duration())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromYAML(t *testing.T) {
	path := useConfigHome(t)
	content := `
dedup:
  threshold: 0.8
staleness:
  max_age_days: 45
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.8, cfg.Dedup.Threshold)
	assert.Equal(t, 45, cfg.Staleness.MaxAgeDays)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	// Untouched fields keep their defaults.
	assert.Equal(t, 30, cfg.Staleness.WindowDays)
}

func TestEnvOverridesFile(t *testing.T) {
	path := useConfigHome(t)
	require.NoError(t, os.WriteFile(path, []byte("dedup:\n  threshold: 0.8\n"), 0600))
	t.Setenv("DEDUP_THRESHOLD", "0.7")
	t.Setenv("STALENESS_MAX_AGE_DAYS", "10")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.7, cfg.Dedup.Threshold)
	assert.Equal(t, 10, cfg.Staleness.MaxAgeDays)
}

func TestLoadRejectsInsecurePermissions(t *testing.T) {
	path := useConfigHome(t)
	require.NoError(t, os.WriteFile(path, []byte("dedup:\n  threshold: 0.8\n"), 0644))

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permissions")
}

func TestLoadRejectsPathOutsideAllowedDirs(t *testing.T) {
	useConfigHome(t)
	stray := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(stray, []byte(""), 0600))

	_, err := LoadWithFile(stray)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be in")
}

func TestLoadRejectsOversizeFile(t *testing.T) {
	path := useConfigHome(t)
	big := make([]byte, maxConfigFileSize+1)
	require.NoError(t, os.WriteFile(path, big, 0600))

	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestConfigValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, base().Validate())
	})

	t.Run("same document names", func(t *testing.T) {
		cfg := base()
		cfg.Documents.ChildName = cfg.Documents.RootName
		assert.Error(t, cfg.Validate())
	})

	t.Run("threshold out of range", func(t *testing.T) {
		cfg := base()
		cfg.Dedup.Threshold = 1.5
		assert.Error(t, cfg.Validate())
	})

	t.Run("soft above hard", func(t *testing.T) {
		cfg := base()
		cfg.Validation.SoftSizeLimit = 10000
		cfg.Validation.HardSizeLimit = 5000
		assert.Error(t, cfg.Validate())
	})

	t.Run("gate enabled without model", func(t *testing.T) {
		cfg := base()
		cfg.Gate.Enabled = true
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad logging format", func(t *testing.T) {
		cfg := base()
		cfg.Logging.Format = "xml"
		assert.Error(t, cfg.Validate())
	})
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("90s")))
	assert.Equal(t, 90*time.Second, d.Duration())

	assert.Error(t, d.UnmarshalText([]byte("-5s")))
	assert.Error(t, d.UnmarshalText([]byte("nonsense")))

	out, err := Duration(time.Minute).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m0s", string(out))
}

func TestSecretRedaction(t *testing.T) {
	s := Secret("hunter2")

	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
	assert.Equal(t, "Secret([REDACTED])", fmt.Sprintf("%#v", s))
	assert.Equal(t, "hunter2", s.Value())
	assert.True(t, s.IsSet())

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `"[REDACTED]"`, string(raw))

	empty := Secret("")
	assert.Equal(t, "", empty.String())
	assert.False(t, empty.IsSet())
}
