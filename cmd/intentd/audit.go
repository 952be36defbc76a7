package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/intentd/internal/audit"
)

var (
	auditThresholdDays int
	auditJSON          bool
)

var severityStyles = map[audit.Severity]lipgloss.Style{
	audit.SeverityNone:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	audit.SeverityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	audit.SeverityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	audit.SeverityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
}

var auditPathStyle = lipgloss.NewStyle().Bold(true)
var auditReasonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

func init() {
	auditCmd.Flags().IntVar(&auditThresholdDays, "threshold-days", 0, "override the max document age in days")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "emit reports as JSON")
	rootCmd.AddCommand(auditCmd)
}

var auditCmd = &cobra.Command{
	Use:   "audit [checkout]",
	Short: "Flag intent documents that look stale",
	Long: `Audit every intent document in a checkout for staleness signals:
document age, code in the scope modified after the document, and commit
volume under the scope since the document last changed. Read-only; it
never edits documents.

Examples:
  intentd audit
  intentd audit --threshold-days 30 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	checkout, err := findCheckout(targetArg(args), cfg)
	if err != nil {
		return err
	}

	auditCfg := audit.Config{
		MaxAgeDays:  cfg.Staleness.MaxAgeDays,
		WindowDays:  cfg.Staleness.WindowDays,
		MaxCommits:  cfg.Staleness.MaxCommits,
		DocPatterns: cfg.Staleness.DocPatterns,
	}
	if auditThresholdDays > 0 {
		auditCfg.MaxAgeDays = auditThresholdDays
	}

	store, _ := resolverFor(cfg, logger, checkout)
	auditor := audit.NewAuditor(store, auditCfg, logger)
	reports, err := auditor.Audit(cmd.Context(), checkout)
	if err != nil {
		return fmt.Errorf("audit checkout: %w", err)
	}

	if auditJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	if len(reports) == 0 {
		fmt.Println("No intent documents found")
		return nil
	}
	for _, r := range reports {
		rel, err := filepath.Rel(checkout, r.NodePath)
		if err != nil {
			rel = r.NodePath
		}
		style := severityStyles[r.Severity]
		fmt.Printf("%-8s %s\n", style.Render(strings.ToUpper(r.Severity.String())), auditPathStyle.Render(rel))
		for _, reason := range r.Reasons {
			fmt.Printf("         %s\n", auditReasonStyle.Render(reason))
		}
	}
	return nil
}
