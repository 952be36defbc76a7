package audit

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/intentd/internal/intent"
)

// Default thresholds. Inherited from the original heuristic tuning and
// configurable because the exact values are not load-bearing.
const (
	DefaultMaxAgeDays = 90
	DefaultWindowDays = 30
	DefaultMaxCommits = 20
)

// DefaultDocPatterns are glob patterns for files that do not count as
// code changes in the newer-change signal.
var DefaultDocPatterns = []string{
	"**/*.md",
	"**/docs/**",
	"**/LICENSE*",
}

// skipDirs are never descended into while walking a checkout.
var skipDirs = map[string]bool{
	".git":         true,
	".intent":      true,
	"node_modules": true,
	"vendor":       true,
}

// Config holds the auditor thresholds.
type Config struct {
	// MaxAgeDays triggers the age signal; twice the threshold raises it
	// a tier.
	MaxAgeDays int `koanf:"max_age_days"`

	// WindowDays is the lookback window for the commit-volume signal.
	WindowDays int `koanf:"window_days"`

	// MaxCommits triggers the commit-volume signal.
	MaxCommits int `koanf:"max_commits"`

	// DocPatterns exclude documentation files from the change signal.
	DocPatterns []string `koanf:"doc_patterns"`
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = DefaultMaxAgeDays
	}
	if c.WindowDays <= 0 {
		c.WindowDays = DefaultWindowDays
	}
	if c.MaxCommits <= 0 {
		c.MaxCommits = DefaultMaxCommits
	}
	if len(c.DocPatterns) == 0 {
		c.DocPatterns = DefaultDocPatterns
	}
	return c
}

// Report is the derived staleness record for one node. Computed fresh
// on each run, never stored.
type Report struct {
	NodePath string   `json:"node"`
	Severity Severity `json:"severity"`
	Reasons  []string `json:"reasons,omitempty"`
}

// Auditor computes staleness reports for every node in a checkout.
type Auditor struct {
	store  *intent.Store
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewAuditor creates an auditor. The clock is injectable for tests.
func NewAuditor(store *intent.Store, cfg Config, logger *zap.Logger) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{store: store, cfg: cfg.withDefaults(), logger: logger, now: time.Now}
}

// WithClock overrides the auditor's clock. Test use.
func (a *Auditor) WithClock(now func() time.Time) *Auditor {
	a.now = now
	return a
}

// Audit scores every node under checkout. Reports come back sorted by
// descending severity, ties by node path.
func (a *Auditor) Audit(ctx context.Context, checkout string) ([]Report, error) {
	checkout = filepath.Clean(checkout)
	nodes, err := a.collectNodes(checkout)
	if err != nil {
		return nil, err
	}

	// Scope dirs of all child nodes, for nearest-wins subtree cuts.
	scopes := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if !n.IsRoot {
			scopes[n.ScopeDir] = true
		}
	}

	repo, repoErr := git.PlainOpen(checkout)
	if repoErr != nil {
		a.logger.Debug("no git history available, commit signal skipped",
			zap.String("checkout", checkout), zap.Error(repoErr))
	}

	reports := make([]Report, 0, len(nodes))
	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report, err := a.auditNode(checkout, node, scopes, repo)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].Severity != reports[j].Severity {
			return reports[i].Severity > reports[j].Severity
		}
		return reports[i].NodePath < reports[j].NodePath
	})
	return reports, nil
}

// auditNode evaluates the three signals for one node. Severity is the
// maximum triggered tier; reasons list every triggered signal.
func (a *Auditor) auditNode(checkout string, node *intent.Node, scopes map[string]bool, repo *git.Repository) (Report, error) {
	report := Report{NodePath: node.Path, Severity: SeverityNone}
	now := a.now()

	// Signal 1: document age.
	age := now.Sub(node.ModTime)
	maxAge := time.Duration(a.cfg.MaxAgeDays) * 24 * time.Hour
	if age > maxAge {
		tier := SeverityLow
		if age > 2*maxAge {
			tier = SeverityMedium
		}
		report.Severity = raise(report.Severity, tier)
		report.Reasons = append(report.Reasons,
			fmt.Sprintf("document is %d days old (threshold %d)", int(age.Hours()/24), a.cfg.MaxAgeDays))
	}

	// Signal 2: newer non-documentation change in the covered subtree.
	newest, newestPath, err := a.newestCodeChange(checkout, node, scopes)
	if err != nil {
		return Report{}, err
	}
	if !newest.IsZero() && newest.After(node.ModTime) {
		report.Severity = raise(report.Severity, SeverityMedium)
		report.Reasons = append(report.Reasons,
			fmt.Sprintf("covered code changed after the document (%s)", newestPath))
	}

	// Signal 3: commit volume over the window.
	if repo != nil {
		count, err := a.commitVolume(checkout, node, scopes, repo)
		if err != nil {
			a.logger.Warn("commit signal failed, skipped",
				zap.String("node", node.Path), zap.Error(err))
		} else if count > a.cfg.MaxCommits {
			report.Severity = raise(report.Severity, SeverityHigh)
			report.Reasons = append(report.Reasons,
				fmt.Sprintf("%d commits touched the covered subtree in the last %d days (threshold %d)",
					count, a.cfg.WindowDays, a.cfg.MaxCommits))
		}
	}

	return report, nil
}

// collectNodes finds the root document and every child document under
// checkout.
func (a *Auditor) collectNodes(checkout string) ([]*intent.Node, error) {
	var nodes []*intent.Node

	root, err := a.store.RootAt(checkout)
	if err != nil {
		return nil, err
	}
	if root != nil {
		nodes = append(nodes, root)
	}

	err = filepath.WalkDir(checkout, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] && path != checkout {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != a.store.ChildName() {
			return nil
		}
		node, err := a.store.Load(path, false)
		if err != nil {
			return err
		}
		nodes = append(nodes, node)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking checkout: %w", err)
	}
	return nodes, nil
}

// covered reports whether an absolute path belongs to the node's scope:
// inside its directory and not inside a descendant directory that has
// its own node.
func covered(node *intent.Node, scopes map[string]bool, path string) bool {
	scope := node.ScopeDir
	if path != scope && !strings.HasPrefix(path, scope+string(filepath.Separator)) {
		return false
	}
	// Walk from the path's directory up to the node's scope; any
	// intermediate scope owns the path instead.
	dir := filepath.Dir(path)
	for dir != scope && len(dir) > len(scope) {
		if scopes[dir] {
			return false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return true
}

// isDocFile reports whether a checkout-relative slash path matches the
// documentation patterns.
func (a *Auditor) isDocFile(rel string) bool {
	for _, pattern := range a.cfg.DocPatterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// newestCodeChange returns the most recent modification among
// non-documentation files covered by the node.
func (a *Auditor) newestCodeChange(checkout string, node *intent.Node, scopes map[string]bool) (time.Time, string, error) {
	var newest time.Time
	var newestPath string

	err := filepath.WalkDir(node.ScopeDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] && path != node.ScopeDir {
				return filepath.SkipDir
			}
			if path != node.ScopeDir && scopes[path] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == a.store.RootName() || d.Name() == a.store.ChildName() {
			return nil
		}
		rel, err := filepath.Rel(checkout, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if a.isDocFile(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
			newestPath = rel
		}
		return nil
	})
	if err != nil {
		return time.Time{}, "", fmt.Errorf("scanning covered subtree: %w", err)
	}
	return newest, newestPath, nil
}

// commitVolume counts commits in the window that touched the node's
// covered subtree. Counting stops once the threshold is exceeded.
func (a *Auditor) commitVolume(checkout string, node *intent.Node, scopes map[string]bool, repo *git.Repository) (int, error) {
	since := a.now().AddDate(0, 0, -a.cfg.WindowDays)

	iter, err := repo.Log(&git.LogOptions{
		Since: &since,
		PathFilter: func(rel string) bool {
			abs := filepath.Join(checkout, filepath.FromSlash(rel))
			return covered(node, scopes, abs)
		},
	})
	if err != nil {
		return 0, fmt.Errorf("reading git log: %w", err)
	}
	defer iter.Close()

	count := 0
	err = iter.ForEach(func(_ *object.Commit) error {
		count++
		if count > a.cfg.MaxCommits {
			// Over threshold already; no need to count the rest.
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
