package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/intentd/internal/audit"
	"github.com/fyrsmithlabs/intentd/internal/intent"
	"github.com/fyrsmithlabs/intentd/internal/learning"
	"github.com/fyrsmithlabs/intentd/internal/resolve"
)

// noCoverageText is returned by intent_read when no node covers the
// path. Kept as plain text so agent clients can surface it verbatim.
const noCoverageText = "No intent coverage for this path. " +
	"Add a CLAUDE.md at the checkout root or an AGENTS.md in an ancestor directory."

type readInput struct {
	ProjectRoot string   `json:"project_root" jsonschema:"Absolute path of an allowed project checkout"`
	Path        string   `json:"path,omitempty" jsonschema:"File or directory inside the checkout; empty means the checkout root"`
	Sections    []string `json:"sections,omitempty" jsonschema:"Section names to include; empty means all known sections"`
	Compact     bool     `json:"compact,omitempty" jsonschema:"Strip blank lines and cap each contribution"`
}

type readOutput struct {
	Path       string   `json:"path"`
	Uncovered  bool     `json:"uncovered"`
	Provenance []string `json:"provenance,omitempty"`
	Rendered   string   `json:"rendered"`
}

type reportLearningInput struct {
	ProjectRoot string `json:"project_root" jsonschema:"Absolute path of an allowed project checkout"`
	Path        string `json:"path" jsonschema:"File or directory the learning is about"`
	Type        string `json:"type" jsonschema:"One of pitfall, check, pattern, insight"`
	Title       string `json:"title" jsonschema:"Short summary, at most 50 characters"`
	Detail      string `json:"detail" jsonschema:"Full learning text"`
	AgentID     string `json:"agent_id,omitempty" jsonschema:"Identifier of the reporting agent"`
}

type reportLearningOutput struct {
	Outcome  string `json:"outcome"`
	NodePath string `json:"node_path,omitempty"`
	Section  string `json:"section,omitempty"`
}

type auditInput struct {
	ProjectRoot   string `json:"project_root" jsonschema:"Absolute path of an allowed project checkout"`
	ThresholdDays int    `json:"threshold_days,omitempty" jsonschema:"Override for the max document age in days"`
}

type auditOutput struct {
	Reports []audit.Report `json:"reports"`
}

type validateInput struct {
	ProjectRoot string `json:"project_root" jsonschema:"Absolute path of an allowed project checkout"`
	NodePath    string `json:"node_path,omitempty" jsonschema:"Directory or document path to validate; empty means the checkout root"`
}

type validateOutput struct {
	NodePath string   `json:"node_path"`
	Status   string   `json:"status"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Passes   []string `json:"passes,omitempty"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "intent_read",
		Description: "Resolve the intent context covering a path: root guidance plus every ancestor directory's notes, nearest last",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args readInput) (*mcp.CallToolResult, readOutput, error) {
		checkout, target, err := s.checkoutFor(args.ProjectRoot, args.Path)
		if err != nil {
			return nil, readOutput{}, err
		}

		resolver := s.resolverFor(checkout)
		bundle, err := resolver.ResolveContext(target, resolve.Options{
			Sections: args.Sections,
			Compact:  args.Compact,
		})
		if err != nil {
			return nil, readOutput{}, fmt.Errorf("resolve context: %w", err)
		}

		out := readOutput{
			Path:       args.Path,
			Uncovered:  bundle.Uncovered,
			Provenance: bundle.Provenance,
		}
		if bundle.Uncovered {
			out.Rendered = noCoverageText
		} else {
			out.Rendered = bundle.Render(checkout)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: out.Rendered},
			},
		}, out, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "intent_report_learning",
		Description: "Record a learning (pitfall, check, pattern, or insight) into the nearest intent document covering a path",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args reportLearningInput) (*mcp.CallToolResult, reportLearningOutput, error) {
		checkout, target, err := s.checkoutFor(args.ProjectRoot, args.Path)
		if err != nil {
			return nil, reportLearningOutput{}, err
		}

		integrator := learning.NewIntegrator(s.resolverFor(checkout), s.store, s.detector, s.logger)
		res, err := integrator.Integrate(ctx, learning.Entry{
			Type:       learning.Type(args.Type),
			Title:      args.Title,
			Body:       args.Detail,
			SourcePath: target,
			AgentID:    args.AgentID,
		})
		if err != nil {
			return nil, reportLearningOutput{}, fmt.Errorf("integrate learning: %w", err)
		}

		// The integrator wrote past the watch cache; drop the stale copy.
		if res.NodePath != "" {
			s.cache.Invalidate(res.NodePath)
		}

		out := reportLearningOutput{
			Outcome:  string(res.Outcome),
			NodePath: res.NodePath,
			Section:  res.Section,
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Learning %s", res.Outcome)},
			},
		}, out, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "intent_audit",
		Description: "Audit a checkout's intent documents for staleness (age, code drift, commit volume)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args auditInput) (*mcp.CallToolResult, auditOutput, error) {
		checkout, _, err := s.checkoutFor(args.ProjectRoot, "")
		if err != nil {
			return nil, auditOutput{}, err
		}

		auditor := s.auditor
		if args.ThresholdDays > 0 {
			cfg := audit.Config{
				MaxAgeDays:  args.ThresholdDays,
				WindowDays:  s.cfg.Staleness.WindowDays,
				MaxCommits:  s.cfg.Staleness.MaxCommits,
				DocPatterns: s.cfg.Staleness.DocPatterns,
			}
			auditor = audit.NewAuditor(s.store, cfg, s.logger)
		}

		reports, err := auditor.Audit(ctx, checkout)
		if err != nil {
			return nil, auditOutput{}, fmt.Errorf("audit checkout: %w", err)
		}

		var summary strings.Builder
		fmt.Fprintf(&summary, "%d document(s) audited", len(reports))
		for _, r := range reports {
			if r.Severity > audit.SeverityNone {
				fmt.Fprintf(&summary, "\n%s: %s", r.Severity, r.NodePath)
			}
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: summary.String()},
			},
		}, auditOutput{Reports: reports}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "intent_validate",
		Description: "Validate one intent document's structure: size budget, required sections, list lengths, source markers",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args validateInput) (*mcp.CallToolResult, validateOutput, error) {
		checkout, target, err := s.checkoutFor(args.ProjectRoot, args.NodePath)
		if err != nil {
			return nil, validateOutput{}, err
		}

		node, err := s.nodeForValidation(checkout, target)
		if err != nil {
			return nil, validateOutput{}, err
		}
		if node == nil {
			return nil, validateOutput{}, fmt.Errorf("no intent document at %s", args.NodePath)
		}

		outcome := s.validator.Validate(node)
		out := validateOutput{
			NodePath: outcome.NodePath,
			Status:   string(outcome.Status()),
			Errors:   outcome.Errors,
			Warnings: outcome.Warnings,
			Passes:   outcome.Passes,
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("%s: %s", out.NodePath, out.Status)},
			},
		}, out, nil
	})
}

// nodeForValidation accepts either a directory or a document file path
// and loads the matching node. A target equal to the checkout loads the
// root document.
func (s *Server) nodeForValidation(checkout, target string) (*intent.Node, error) {
	switch filepath.Base(target) {
	case s.store.RootName():
		return s.store.Load(target, true)
	case s.store.ChildName():
		return s.store.Load(target, false)
	}
	if target == checkout {
		n, err := s.store.RootAt(checkout)
		if err != nil || n != nil {
			return n, err
		}
		// Fall through: a checkout may carry only a child document.
	}
	return s.store.NodeAt(target)
}
