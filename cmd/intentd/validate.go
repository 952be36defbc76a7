package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/intentd/internal/intent"
	"github.com/fyrsmithlabs/intentd/internal/validate"
)

var validateJSON bool

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "emit outcomes as JSON")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check intent documents for structural problems",
	Long: `Validate intent documents: size budgets, required sections, list
lengths, and source markers on factual claims. Given a directory,
validates every document under it; given a document path, validates
just that one.

Exits 1 when any document fails.

Examples:
  intentd validate
  intentd validate internal/auth/AGENTS.md --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	store, _ := resolverFor(cfg, logger, checkout)
	nodes, err := collectValidationNodes(store, checkout, abs)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return fmt.Errorf("no intent documents under %s", target)
	}

	validator := validate.New(validate.Config{
		SoftSizeLimit: cfg.Validation.SoftSizeLimit,
		HardSizeLimit: cfg.Validation.HardSizeLimit,
		MaxBullets:    cfg.Validation.MaxBullets,
	})

	var outcomes []*validate.Outcome
	failed := false
	for _, node := range nodes {
		outcome := validator.Validate(node)
		outcomes = append(outcomes, outcome)
		if outcome.Status() == validate.StatusFail {
			failed = true
		}
	}

	if validateJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outcomes); err != nil {
			return err
		}
	} else {
		for _, o := range outcomes {
			rel, err := filepath.Rel(checkout, o.NodePath)
			if err != nil {
				rel = o.NodePath
			}
			fmt.Printf("%s: %s\n", rel, o.Status())
			for _, e := range o.Errors {
				fmt.Printf("  error: %s\n", e)
			}
			for _, w := range o.Warnings {
				fmt.Printf("  warning: %s\n", w)
			}
		}
	}

	if failed {
		os.Exit(1)
	}
	return nil
}

// collectValidationNodes loads the documents to validate. A document
// path loads that single node; a directory walks for every document
// under it, including the checkout root document when in scope.
func collectValidationNodes(store *intent.Store, checkout, target string) ([]*intent.Node, error) {
	switch filepath.Base(target) {
	case store.RootName():
		node, err := store.Load(target, true)
		if err != nil {
			return nil, err
		}
		return []*intent.Node{node}, nil
	case store.ChildName():
		node, err := store.Load(target, false)
		if err != nil {
			return nil, err
		}
		return []*intent.Node{node}, nil
	}

	var nodes []*intent.Node
	err := filepath.WalkDir(target, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", ".intent", "node_modules", "vendor":
				return filepath.SkipDir
			}
			return nil
		}
		switch d.Name() {
		case store.RootName():
			node, err := store.Load(path, filepath.Dir(path) == checkout)
			if err != nil {
				return err
			}
			nodes = append(nodes, node)
		case store.ChildName():
			node, err := store.Load(path, false)
			if err != nil {
				return err
			}
			nodes = append(nodes, node)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", target, err)
	}
	return nodes, nil
}
