// Package validate checks a single intent document against the minimal
// node schema: size budget, required sections, list length, and source
// traceability. It is used by node-creation workflows before a new
// document is accepted.
package validate

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/intentd/internal/intent"
)

// Default budgets. Configurable; the exact numbers are heuristics, not
// contracts.
const (
	DefaultSoftSizeLimit = 4 * 1024
	DefaultHardSizeLimit = 8 * 1024
	DefaultMaxBullets    = 5
)

// Status summarizes an outcome for machine consumption.
type Status string

const (
	StatusPass             Status = "pass"
	StatusPassWithWarnings Status = "pass_with_warnings"
	StatusFail             Status = "fail"
)

// Config holds validator budgets.
type Config struct {
	SoftSizeLimit int `koanf:"soft_size_limit"`
	HardSizeLimit int `koanf:"hard_size_limit"`
	MaxBullets    int `koanf:"max_bullets"`
}

func (c Config) withDefaults() Config {
	if c.SoftSizeLimit <= 0 {
		c.SoftSizeLimit = DefaultSoftSizeLimit
	}
	if c.HardSizeLimit <= 0 {
		c.HardSizeLimit = DefaultHardSizeLimit
	}
	if c.MaxBullets <= 0 {
		c.MaxBullets = DefaultMaxBullets
	}
	return c
}

// Outcome is the full validation result for one document.
type Outcome struct {
	NodePath string   `json:"node"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Passes   []string `json:"passes,omitempty"`
}

// Status derives the overall result: any error fails, warnings alone
// pass with warnings.
func (o *Outcome) Status() Status {
	switch {
	case len(o.Errors) > 0:
		return StatusFail
	case len(o.Warnings) > 0:
		return StatusPassWithWarnings
	default:
		return StatusPass
	}
}

// purposeSections satisfy the document-purpose requirement; one of them
// must be present in a non-root node.
var purposeSections = []string{"Purpose", "Ownership"}

// requiredSections must each be present in a non-root node. A node
// without them provides no actionable signal, so absence is an error.
var requiredSections = []string{"How to Start", "Pitfalls"}

// factSections should carry a source marker per entry, or a Sources
// section should exist.
var factSections = []string{"Contracts", "Pitfalls", "Insights"}

// Validator checks documents against the node schema.
type Validator struct {
	cfg Config
}

// New creates a validator.
func New(cfg Config) *Validator {
	return &Validator{cfg: cfg.withDefaults()}
}

// Validate runs all checks against one node.
func (v *Validator) Validate(node *intent.Node) *Outcome {
	out := &Outcome{NodePath: node.Path}

	// A document the parser had to degrade is structurally broken.
	for _, warning := range node.Warnings {
		out.Errors = append(out.Errors, warning)
	}
	if len(node.Warnings) == 0 {
		out.Passes = append(out.Passes, "headings parse cleanly")
	}

	v.checkSize(node, out)
	if !node.IsRoot {
		v.checkRequiredSections(node, out)
	}
	v.checkListLengths(node, out)
	v.checkSourceMarkers(node, out)

	return out
}

func (v *Validator) checkSize(node *intent.Node, out *Outcome) {
	size := len(node.Raw())
	switch {
	case size > v.cfg.HardSizeLimit:
		out.Errors = append(out.Errors,
			fmt.Sprintf("document is %d bytes, above the hard ceiling of %d", size, v.cfg.HardSizeLimit))
	case size > v.cfg.SoftSizeLimit:
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("document is %d bytes, above the soft budget of %d", size, v.cfg.SoftSizeLimit))
	default:
		out.Passes = append(out.Passes, "size within budget")
	}
}

func (v *Validator) checkRequiredSections(node *intent.Node, out *Outcome) {
	hasPurpose := false
	for _, name := range purposeSections {
		if _, ok := node.Section(name); ok {
			hasPurpose = true
			break
		}
	}
	if hasPurpose {
		out.Passes = append(out.Passes, "purpose or ownership section present")
	} else {
		out.Errors = append(out.Errors,
			fmt.Sprintf("missing a %s section", strings.Join(purposeSections, " or ")))
	}

	for _, name := range requiredSections {
		if _, ok := node.Section(name); ok {
			out.Passes = append(out.Passes, fmt.Sprintf("%s section present", name))
		} else {
			out.Errors = append(out.Errors, fmt.Sprintf("missing the %s section", name))
		}
	}
}

func (v *Validator) checkListLengths(node *intent.Node, out *Outcome) {
	long := false
	for _, sec := range node.Sections {
		count := countBullets(sec.Body)
		if count > v.cfg.MaxBullets {
			long = true
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("section %q has %d bullet items (budget %d); consider compressing", sec.Heading, count, v.cfg.MaxBullets))
		}
	}
	if !long {
		out.Passes = append(out.Passes, "list lengths within budget")
	}
}

func (v *Validator) checkSourceMarkers(node *intent.Node, out *Outcome) {
	if _, ok := node.Section("Sources"); ok {
		out.Passes = append(out.Passes, "Sources section present")
		return
	}

	for _, name := range factSections {
		sec, ok := node.Section(name)
		if !ok || strings.TrimSpace(sec.Body) == "" {
			continue
		}
		if !strings.Contains(sec.Body, "(source:") {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("section %q states facts without a traceable source marker", name))
		}
	}
}

// countBullets counts top-level bullet items in a section body. Fenced
// code blocks are skipped so code samples never count as lists.
func countBullets(body string) int {
	count := 0
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			// Nested bullets keep their indentation; only count the
			// top level.
			if line == trimmed || !strings.HasPrefix(line, "  ") {
				count++
			}
		}
	}
	return count
}
