package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/intentd/internal/classify"
	"github.com/fyrsmithlabs/intentd/internal/config"
	"github.com/fyrsmithlabs/intentd/internal/hooks"
	"github.com/fyrsmithlabs/intentd/internal/learning"
)

var hookStage bool

func init() {
	hookCmd.Flags().BoolVar(&hookStage, "stage", true, "queue a staged capture when session_end detects a learning")
	rootCmd.AddCommand(hookCmd)
}

var hookCmd = &cobra.Command{
	Use:   "hook <session_start|post_tool_use|session_end>",
	Short: "Run a host hook (payload JSON on stdin)",
	Long: `Run one host hook. The payload is read from stdin as JSON:

  {"session_id": "...", "path": "...", "transcript": "...", "agent_id": "..."}

session_start and post_tool_use print the resolved context for the
payload path. session_end runs the capture gate over the transcript and
prints a capture prompt when it finds a durable learning.

Hooks never block the host: every failure is logged and exits 0.`,
	Args: cobra.ExactArgs(1),
	Run:  runHook,
}

func runHook(cmd *cobra.Command, args []string) {
	// Fail-open throughout: a broken hook must not break the session.
	cfg, logger, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, "intentd hook:", err)
		return
	}
	defer logger.Sync() //nolint:errcheck

	payload, err := hooks.ParsePayload(os.Stdin)
	if err != nil {
		logger.Warn("hook: bad payload", zap.Error(err))
		return
	}

	start := payload.Path
	if start == "" {
		start = "."
	}
	checkout, err := findCheckout(start, cfg)
	if err != nil {
		logger.Warn("hook: cannot locate checkout", zap.Error(err))
		return
	}

	_, resolver := resolverFor(cfg, logger, checkout)
	session := learning.NewSessionState(cfg.Session.InjectionWindow.Duration(), nil)
	runner := hooks.NewRunner(resolver, session, buildGate(cfg, logger), hooks.Config{}, logger)

	hook := hooks.HookType(args[0])
	out, err := runner.Run(cmd.Context(), hook, payload)
	if err != nil {
		logger.Warn("hook failed", zap.String("hook", args[0]), zap.Error(err))
		return
	}
	if out != "" {
		fmt.Print(out)
	}

	// A positive session_end decision also queues the transcript tail so
	// a later drain can integrate it even if the host ignores the prompt.
	if hook == hooks.HookSessionEnd && out != "" && hookStage && payload.Transcript != "" {
		queueSessionCapture(checkout, payload, logger)
	}
}

// buildGate picks the capture gate: the configured LLM gate when
// enabled, the built-in rule gate otherwise.
func buildGate(cfg *config.Config, logger *zap.Logger) classify.Gate {
	if !cfg.Gate.Enabled {
		return classify.NewRuleGate()
	}
	gate, err := classify.NewLLMGate(classify.LLMConfig{
		BaseURL: cfg.Gate.BaseURL,
		Model:   cfg.Gate.Model,
		APIKey:  cfg.Gate.APIKey.Value(),
		Timeout: cfg.Gate.Timeout.Duration(),
	})
	if err != nil {
		logger.Warn("hook: LLM gate unavailable, using rule gate", zap.Error(err))
		return classify.NewRuleGate()
	}
	return gate
}

func queueSessionCapture(checkout string, payload hooks.Payload, logger *zap.Logger) {
	title := "Session learning " + time.Now().Format("2006-01-02")
	detail := payload.Transcript
	if len(detail) > 2000 {
		detail = detail[len(detail)-2000:]
	}
	path, err := learning.QueueCapture(checkout, learning.Entry{
		Type:       learning.TypeInsight,
		Title:      title,
		Body:       detail,
		SourcePath: checkout,
		AgentID:    payload.AgentID,
	})
	if err != nil {
		logger.Warn("hook: staging capture failed", zap.Error(err))
		return
	}
	logger.Info("hook: capture staged", zap.String("file", path))
}
