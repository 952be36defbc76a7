package classify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// DefaultGateTimeout bounds the classification call. The gate runs
// inside lifecycle hooks, so it must never hang the host.
const DefaultGateTimeout = 10 * time.Second

const gatePrompt = `You review a coding session transcript and decide whether it contains a durable, project-specific learning worth writing down (a pitfall, a required check, a preferred pattern, or an insight about the codebase).

Answer with exactly one word: YES or NO.

Transcript:
%s`

// maxTranscriptChars caps how much transcript tail is sent out.
const maxTranscriptChars = 8000

// LLMConfig configures the LLM-backed gate. Any OpenAI-compatible chat
// endpoint works.
type LLMConfig struct {
	BaseURL string        `koanf:"base_url"`
	Model   string        `koanf:"model"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

// LLMGate asks an external model whether the transcript holds a
// capture-worthy learning. Every failure mode surfaces as
// ErrUnavailable.
type LLMGate struct {
	model   llms.Model
	timeout time.Duration
}

// NewLLMGate creates an LLM-backed gate.
func NewLLMGate(cfg LLMConfig) (*LLMGate, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	opts := []openai.Option{openai.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithToken(cfg.APIKey))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating llm client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultGateTimeout
	}
	return &LLMGate{model: model, timeout: timeout}, nil
}

// ShouldCapture sends the transcript tail to the model. Timeouts,
// transport errors and unparseable replies all map to ErrUnavailable.
func (g *LLMGate) ShouldCapture(ctx context.Context, transcript string) (Decision, error) {
	if len(transcript) > maxTranscriptChars {
		transcript = transcript[len(transcript)-maxTranscriptChars:]
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	reply, err := llms.GenerateFromSinglePrompt(ctx, g.model,
		fmt.Sprintf(gatePrompt, transcript))
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	verdict := strings.ToUpper(strings.TrimSpace(reply))
	switch {
	case strings.HasPrefix(verdict, "YES"):
		return Decision{Capture: true, Reason: "model verdict"}, nil
	case strings.HasPrefix(verdict, "NO"):
		return Decision{Capture: false, Reason: "model verdict"}, nil
	default:
		return Decision{}, fmt.Errorf("%w: unparseable reply %q", ErrUnavailable, reply)
	}
}
