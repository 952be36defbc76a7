package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/intentd/internal/learning"
)

var (
	learnType    string
	learnTitle   string
	learnDetail  string
	learnAgentID string
)

func init() {
	learnCmd.Flags().StringVar(&learnType, "type", "", "learning type: pitfall, check, pattern, or insight")
	learnCmd.Flags().StringVar(&learnTitle, "title", "", "short summary (at most 50 characters)")
	learnCmd.Flags().StringVar(&learnDetail, "detail", "", "full learning text (reads stdin when omitted)")
	learnCmd.Flags().StringVar(&learnAgentID, "agent-id", "", "identifier of the reporting agent")
	learnCmd.MarkFlagRequired("type")  //nolint:errcheck
	learnCmd.MarkFlagRequired("title") //nolint:errcheck
	rootCmd.AddCommand(learnCmd)

	rootCmd.AddCommand(drainCmd)
}

var learnCmd = &cobra.Command{
	Use:   "learn [path]",
	Short: "Record a learning into the nearest covering intent document",
	Long: `Record a learning about a path. The entry routes by type (pitfall and
insight go to their own sections, check and pattern become list items)
and lands in the nearest covering document; near-duplicates of existing
facts are dropped.

Examples:
  # A pitfall about one file
  intentd learn internal/auth/token.go --type pitfall \
    --title "Tokens expire server-side" --detail "Refresh before retrying, the local TTL lies."

  # Read the detail from stdin
  git diff | intentd learn . --type insight --title "Migration ordering matters"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLearn,
}

func runLearn(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	detail := learnDetail
	if detail == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read detail from stdin: %w", err)
		}
		detail = strings.TrimSpace(string(raw))
	}

	target := targetArg(args)
	checkout, err := findCheckout(target, cfg)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	store, resolver := resolverFor(cfg, logger, checkout)
	detector := learning.NewDetector(cfg.Dedup.Threshold)
	integrator := learning.NewIntegrator(resolver, store, detector, logger)

	res, err := integrator.Integrate(cmd.Context(), learning.Entry{
		Type:       learning.Type(learnType),
		Title:      learnTitle,
		Body:       detail,
		SourcePath: abs,
		AgentID:    learnAgentID,
	})
	if err != nil {
		if errors.Is(err, learning.ErrUnknownType) || errors.Is(err, learning.ErrInvalidEntry) {
			return err
		}
		return fmt.Errorf("integrate learning: %w", err)
	}

	switch res.Outcome {
	case learning.OutcomeIntegrated:
		fmt.Printf("Recorded in %s (%s)\n", res.NodePath, res.Section)
	case learning.OutcomeDuplicate:
		fmt.Printf("Already covered by %s, nothing written\n", res.NodePath)
	case learning.OutcomeNoCoveringNode:
		fmt.Fprintf(os.Stderr, "no intent document covers %s; create one first\n", target)
		os.Exit(2)
	}
	return nil
}

var drainCmd = &cobra.Command{
	Use:   "drain [checkout]",
	Short: "Integrate learnings staged by session hooks",
	Long: `Integrate every learning queued under .intent/learnings in the
checkout, oldest first. Successfully integrated and duplicate entries
are removed from the queue; entries that fail stay for the next run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrain,
}

func runDrain(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	checkout, err := findCheckout(targetArg(args), cfg)
	if err != nil {
		return err
	}

	store, resolver := resolverFor(cfg, logger, checkout)
	detector := learning.NewDetector(cfg.Dedup.Threshold)
	integrator := learning.NewIntegrator(resolver, store, detector, logger)

	results, err := learning.DrainStaged(cmd.Context(), checkout, integrator, logger)
	if err != nil {
		return fmt.Errorf("drain staged learnings: %w", err)
	}
	if len(results) == 0 {
		fmt.Println("Nothing staged")
		return nil
	}
	for _, r := range results {
		if r.Err != "" {
			fmt.Printf("%s: kept (%s)\n", filepath.Base(r.File), r.Err)
			continue
		}
		fmt.Printf("%s: %s\n", filepath.Base(r.File), r.Result.Outcome)
	}
	return nil
}
