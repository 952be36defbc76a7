package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/intentd/internal/resolve"
)

var (
	resolveSections []string
	resolveCompact  bool
	resolveJSON     bool
)

func init() {
	resolveCmd.Flags().StringSliceVar(&resolveSections, "sections", nil, "section names to include (default: all known sections)")
	resolveCmd.Flags().BoolVar(&resolveCompact, "compact", false, "strip blank lines and cap each contribution")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "emit the bundle as JSON")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [path]",
	Short: "Print the intent context covering a path",
	Long: `Resolve the intent context covering a file or directory: the root
document's guidance first, then every covering ancestor directory's
notes, nearest last.

Exits 2 when no document covers the path.

Examples:
  # Context for the current directory
  intentd resolve

  # Context for one file, pitfalls only, compacted
  intentd resolve internal/auth/token.go --sections Pitfalls --compact`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	target := targetArg(args)
	checkout, err := findCheckout(target, cfg)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	_, resolver := resolverFor(cfg, logger, checkout)
	bundle, err := resolver.ResolveContext(abs, resolve.Options{
		Sections: resolveSections,
		Compact:  resolveCompact,
	})
	if err != nil {
		return fmt.Errorf("resolve context: %w", err)
	}

	if resolveJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(bundle); err != nil {
			return err
		}
	} else if bundle.Uncovered {
		fmt.Fprintf(os.Stderr, "no intent coverage for %s\n", target)
	} else {
		fmt.Print(bundle.Render(checkout))
	}

	if bundle.Uncovered {
		os.Exit(2)
	}
	return nil
}
