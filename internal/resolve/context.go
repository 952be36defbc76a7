package resolve

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fyrsmithlabs/intentd/internal/intent"
)

// DefaultCompactLines is the per-section line cap applied in compact
// mode.
const DefaultCompactLines = 12

// Options controls context resolution.
type Options struct {
	// Sections is an allow-list of section names. Empty means all known
	// section names.
	Sections []string

	// Compact strips blank lines and caps each contribution at MaxLines
	// lines. Lossy by design.
	Compact bool

	// MaxLines is the compact-mode line cap. Zero means
	// DefaultCompactLines.
	MaxLines int
}

// Contribution is one node's body for one section.
type Contribution struct {
	Section  string `json:"section"`
	NodePath string `json:"node"`
	Body     string `json:"body"`
}

// Bundle is the merged context for a path.
type Bundle struct {
	// Path is the queried path as given by the caller.
	Path string `json:"path"`

	// Uncovered reports that no node covers the path. Distinguished
	// from an empty-but-covered bundle so callers can warn.
	Uncovered bool `json:"uncovered"`

	// Provenance lists the chain's document paths, root first.
	Provenance []string `json:"provenance,omitempty"`

	// Contributions holds section bodies grouped by section, each
	// section ordered root to nearest so specific guidance follows the
	// general guidance it refines.
	Contributions []Contribution `json:"contributions,omitempty"`
}

// ResolveContext builds the merged context bundle for a path.
//
// No deduplication happens here: guidance inherited from an ancestor
// and restated locally appears twice on purpose. Write-time dedup in
// the learning integrator is the only dedup this system does.
func (r *Resolver) ResolveContext(path string, opts Options) (*Bundle, error) {
	chain, err := r.Chain(path)
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{Path: path}
	if chain.Uncovered() {
		bundle.Uncovered = true
		return bundle, nil
	}
	bundle.Provenance = chain.Paths()

	sections := opts.Sections
	if len(sections) == 0 {
		sections = intent.KnownSections
	}
	maxLines := opts.MaxLines
	if maxLines <= 0 {
		maxLines = DefaultCompactLines
	}

	for _, name := range sections {
		for _, node := range chain.Nodes {
			body, ok := Extract(node, name)
			if !ok {
				continue
			}
			if opts.Compact {
				body = compact(body, maxLines)
			}
			bundle.Contributions = append(bundle.Contributions, Contribution{
				Section:  name,
				NodePath: node.Path,
				Body:     body,
			})
		}
	}
	return bundle, nil
}

// Render produces the human-readable text form of a bundle, the shape
// consumed by hooks and MCP clients.
func (b *Bundle) Render(checkout string) string {
	if b.Uncovered {
		return fmt.Sprintf("No intent coverage for %s.\n", b.Path)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Intent context: %s\n\n", b.Path)
	sb.WriteString("Provenance (root to nearest):\n")
	for i, p := range b.Provenance {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, relTo(checkout, p))
	}

	var current string
	for _, c := range b.Contributions {
		if c.Section != current {
			current = c.Section
			fmt.Fprintf(&sb, "\n## %s\n", current)
		}
		fmt.Fprintf(&sb, "\n[from %s]\n%s\n", relTo(checkout, c.NodePath), c.Body)
	}
	return sb.String()
}

// compact strips blank lines and caps the result at maxLines lines.
func compact(body string, maxLines int) string {
	var kept []string
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
		if len(kept) == maxLines {
			break
		}
	}
	return strings.Join(kept, "\n")
}

func relTo(checkout, path string) string {
	if checkout == "" {
		return path
	}
	rel, err := filepath.Rel(checkout, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
