package config

import (
	"fmt"
	"time"
)

// Config is the full intentd configuration. Every heuristic constant in
// the system lives here rather than in code: the shipped values come
// from the original tuning and nothing proves the exact numbers are
// load-bearing.
type Config struct {
	Documents DocumentsConfig `koanf:"documents"`
	Dedup     DedupConfig     `koanf:"dedup"`
	Session   SessionConfig   `koanf:"session"`
	Staleness StalenessConfig `koanf:"staleness"`
	Validation ValidateConfig `koanf:"validate"`
	Gate      GateConfig      `koanf:"gate"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DocumentsConfig names the two document kinds.
type DocumentsConfig struct {
	// RootName is the checkout-top document filename.
	RootName string `koanf:"root_name"`

	// ChildName is the per-directory document filename.
	ChildName string `koanf:"child_name"`
}

// DedupConfig tunes the duplicate detector.
type DedupConfig struct {
	// Threshold is the minimum normalized token overlap ratio.
	Threshold float64 `koanf:"threshold"`
}

// SessionConfig tunes session-scoped injection dedup.
type SessionConfig struct {
	// InjectionWindow is how long an injected node stays "recent".
	InjectionWindow Duration `koanf:"injection_window"`
}

// StalenessConfig tunes the auditor.
type StalenessConfig struct {
	MaxAgeDays  int      `koanf:"max_age_days"`
	WindowDays  int      `koanf:"window_days"`
	MaxCommits  int      `koanf:"max_commits"`
	DocPatterns []string `koanf:"doc_patterns"`
}

// ValidateConfig tunes the structural validator.
type ValidateConfig struct {
	SoftSizeLimit int `koanf:"soft_size_limit"`
	HardSizeLimit int `koanf:"hard_size_limit"`
	MaxBullets    int `koanf:"max_bullets"`
}

// GateConfig configures the LLM capture gate. Disabled by default; the
// rule gate serves offline use.
type GateConfig struct {
	Enabled bool     `koanf:"enabled"`
	BaseURL string   `koanf:"base_url"`
	Model   string   `koanf:"model"`
	APIKey  Secret   `koanf:"api_key"`
	Timeout Duration `koanf:"timeout"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`
}

// applyDefaults fills unset fields.
func applyDefaults(cfg *Config) {
	if cfg.Documents.RootName == "" {
		cfg.Documents.RootName = "CLAUDE.md"
	}
	if cfg.Documents.ChildName == "" {
		cfg.Documents.ChildName = "AGENTS.md"
	}
	if cfg.Dedup.Threshold == 0 {
		cfg.Dedup.Threshold = 0.6
	}
	if cfg.Session.InjectionWindow == 0 {
		cfg.Session.InjectionWindow = Duration(15 * time.Minute)
	}
	if cfg.Staleness.MaxAgeDays == 0 {
		cfg.Staleness.MaxAgeDays = 90
	}
	if cfg.Staleness.WindowDays == 0 {
		cfg.Staleness.WindowDays = 30
	}
	if cfg.Staleness.MaxCommits == 0 {
		cfg.Staleness.MaxCommits = 20
	}
	if cfg.Validation.SoftSizeLimit == 0 {
		cfg.Validation.SoftSizeLimit = 4 * 1024
	}
	if cfg.Validation.HardSizeLimit == 0 {
		cfg.Validation.HardSizeLimit = 8 * 1024
	}
	if cfg.Validation.MaxBullets == 0 {
		cfg.Validation.MaxBullets = 5
	}
	if cfg.Gate.Timeout == 0 {
		cfg.Gate.Timeout = Duration(10 * time.Second)
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.Documents.RootName == c.Documents.ChildName {
		return fmt.Errorf("documents.root_name and documents.child_name must differ, both are %q",
			c.Documents.RootName)
	}
	if c.Dedup.Threshold < 0 || c.Dedup.Threshold > 1 {
		return fmt.Errorf("dedup.threshold must be in [0,1], got %v", c.Dedup.Threshold)
	}
	if c.Validation.SoftSizeLimit > c.Validation.HardSizeLimit {
		return fmt.Errorf("validate.soft_size_limit (%d) must not exceed validate.hard_size_limit (%d)",
			c.Validation.SoftSizeLimit, c.Validation.HardSizeLimit)
	}
	if c.Gate.Enabled && c.Gate.Model == "" {
		return fmt.Errorf("gate.model is required when gate.enabled is true")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}
