// Package main implements the intentd CLI: context resolution, learning
// capture, staleness audits, and structural validation for intent
// documents, plus the MCP server and host hook entrypoints.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/intentd/internal/config"
	"github.com/fyrsmithlabs/intentd/internal/intent"
	"github.com/fyrsmithlabs/intentd/internal/logging"
	"github.com/fyrsmithlabs/intentd/internal/resolve"
)

var (
	// configPath overrides the default config file location.
	configPath string
	// checkoutFlag pins the checkout root instead of discovering it.
	checkoutFlag string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "intentd",
	Short: "Hierarchical intent documents for codebases",
	Long: `intentd maintains a tree of intent documents (a CLAUDE.md at the
checkout root, AGENTS.md files per directory) and resolves the guidance
covering any path: root context first, nearest directory last.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/intentd/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&checkoutFlag, "checkout", "", "checkout root (default: discovered from the target path)")
}

// setup loads configuration and builds the logger every subcommand
// shares.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}

// findCheckout discovers the checkout root covering path: the nearest
// ancestor carrying a root document, falling back to the nearest
// ancestor with a .git directory, falling back to the path's own
// directory.
func findCheckout(path string, cfg *config.Config) (string, error) {
	if checkoutFlag != "" {
		return filepath.Abs(checkoutFlag)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	dir := abs
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	gitRoot := ""
	for d := dir; ; d = filepath.Dir(d) {
		if _, err := os.Stat(filepath.Join(d, cfg.Documents.RootName)); err == nil {
			return d, nil
		}
		if gitRoot == "" {
			if _, err := os.Stat(filepath.Join(d, ".git")); err == nil {
				gitRoot = d
			}
		}
		if d == filepath.Dir(d) {
			break
		}
	}
	if gitRoot != "" {
		return gitRoot, nil
	}
	return dir, nil
}

// resolverFor builds a store and resolver for one checkout.
func resolverFor(cfg *config.Config, logger *zap.Logger, checkout string) (*intent.Store, *resolve.Resolver) {
	store := intent.NewStore(cfg.Documents.RootName, cfg.Documents.ChildName)
	return store, resolve.NewResolver(store, checkout, logger)
}

// targetArg returns the positional path argument, defaulting to the
// current directory.
func targetArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
