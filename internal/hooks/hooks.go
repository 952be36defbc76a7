package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/intentd/internal/classify"
	"github.com/fyrsmithlabs/intentd/internal/learning"
	"github.com/fyrsmithlabs/intentd/internal/resolve"
)

// HookType identifies a lifecycle hook.
type HookType string

const (
	// HookSessionStart fires when a session begins; injects context for
	// the working directory.
	HookSessionStart HookType = "session_start"

	// HookPostToolUse fires after a file-touching tool call; injects
	// context for the touched path.
	HookPostToolUse HookType = "post_tool_use"

	// HookSessionEnd fires when a session ends; runs the capture gate
	// over the transcript tail.
	HookSessionEnd HookType = "session_end"
)

// ErrUnknownHook indicates a hook type outside the fixed set.
var ErrUnknownHook = fmt.Errorf("unknown hook type")

// Payload is the host-provided hook input, read from stdin as JSON.
type Payload struct {
	SessionID  string `json:"session_id"`
	Path       string `json:"path,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	AgentID    string `json:"agent_id,omitempty"`
}

// Config controls hook behavior.
type Config struct {
	// InjectSections restricts which sections hooks inject. Empty means
	// all known sections.
	InjectSections []string `koanf:"inject_sections"`

	// Compact injects the compacted bundle projection.
	Compact bool `koanf:"compact"`
}

// Runner executes hooks against one checkout.
type Runner struct {
	resolver *resolve.Resolver
	session  *learning.SessionState
	gate     classify.Gate
	cfg      Config
	logger   *zap.Logger
}

// NewRunner creates a hook runner. The gate may be nil, which disables
// end-of-session capture prompts.
func NewRunner(resolver *resolve.Resolver, session *learning.SessionState, gate classify.Gate, cfg Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		resolver: resolver,
		session:  session,
		gate:     gate,
		cfg:      cfg,
		logger:   logger,
	}
}

// ParsePayload decodes a hook payload from the host.
func ParsePayload(r io.Reader) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("decoding hook payload: %w", err)
	}
	return p, nil
}

// Run executes one hook and returns the text to hand back to the host.
// An empty return means the hook has nothing to say.
func (r *Runner) Run(ctx context.Context, hook HookType, payload Payload) (string, error) {
	switch hook {
	case HookSessionStart, HookPostToolUse:
		return r.inject(payload)
	case HookSessionEnd:
		return r.capturePrompt(ctx, payload), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownHook, hook)
	}
}

// inject resolves and renders context for the payload path, skipping
// nodes already delivered to this session within the dedup window.
func (r *Runner) inject(payload Payload) (string, error) {
	path := payload.Path
	if path == "" {
		path = r.resolver.Checkout()
	}

	bundle, err := r.resolver.ResolveContext(path, resolve.Options{
		Sections: r.cfg.InjectSections,
		Compact:  r.cfg.Compact,
	})
	if err != nil {
		return "", err
	}
	if bundle.Uncovered {
		r.logger.Debug("hook: no intent coverage", zap.String("path", path))
		return "", nil
	}

	nearest := bundle.Provenance[len(bundle.Provenance)-1]
	if payload.SessionID != "" && r.session != nil {
		if r.session.RecentlyInjected(payload.SessionID, nearest) {
			r.logger.Debug("hook: context recently injected, skipping",
				zap.String("session", payload.SessionID),
				zap.String("node", nearest))
			return "", nil
		}
		r.session.MarkInjected(payload.SessionID, nearest)
	}

	return bundle.Render(r.resolver.Checkout()), nil
}

// capturePrompt asks the gate whether the transcript holds a learning
// worth writing down, and if so prompts the host to capture it. The
// gate is advisory: unavailable means no prompt.
func (r *Runner) capturePrompt(ctx context.Context, payload Payload) string {
	if payload.Transcript == "" {
		return ""
	}
	decision := classify.FailOpen(ctx, r.gate, payload.Transcript)
	if !decision.Capture {
		return ""
	}
	r.logger.Info("hook: capture-worthy session detected",
		zap.String("session", payload.SessionID),
		zap.String("reason", decision.Reason))
	return "This session appears to contain a durable learning (" + decision.Reason + "). " +
		"Record it with: intentd learn <path> --type <pitfall|check|pattern|insight> --title \"...\" --detail \"...\"\n"
}
