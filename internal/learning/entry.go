package learning

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownType indicates a learning type outside the fixed set.
	// Rejected before any write occurs.
	ErrUnknownType = errors.New("unknown learning type")

	// ErrInvalidEntry indicates a structurally invalid entry.
	ErrInvalidEntry = errors.New("invalid learning entry")
)

// MaxTitleLen caps entry titles, matching the capture contract.
const MaxTitleLen = 50

// Type classifies a learning entry. The type-to-section mapping is a
// total function: every recognized type routes to exactly one section.
type Type string

const (
	TypePitfall Type = "pitfall"
	TypeCheck   Type = "check"
	TypePattern Type = "pattern"
	TypeInsight Type = "insight"
)

// typeSections routes each type to its target section.
var typeSections = map[Type]string{
	TypePitfall: "Pitfalls",
	TypeCheck:   "Checks",
	TypePattern: "Patterns",
	TypeInsight: "Insights",
}

// Section returns the document section this type routes to.
func (t Type) Section() (string, error) {
	s, ok := typeSections[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return s, nil
}

// Entry is a captured fact pending integration.
type Entry struct {
	Type       Type   `json:"type"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	SourcePath string `json:"source_path"`
	AgentID    string `json:"agent_id,omitempty"`
}

// Validate checks the entry before any resolution or write happens.
func (e *Entry) Validate() error {
	if _, err := e.Type.Section(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEntry)
	}
	if len(e.Title) > MaxTitleLen {
		return fmt.Errorf("%w: title must be <= %d characters", ErrInvalidEntry, MaxTitleLen)
	}
	if strings.TrimSpace(e.SourcePath) == "" {
		return fmt.Errorf("%w: source path is required", ErrInvalidEntry)
	}
	return nil
}

// Format renders the entry in its type's body format, with a trailing
// source marker for traceability.
func (e *Entry) Format() string {
	marker := e.sourceMarker()
	switch e.Type {
	case TypeCheck:
		return fmt.Sprintf("- [ ] %s %s", e.inlineText(), marker)
	case TypePattern:
		return fmt.Sprintf("- Preferred: %s %s", e.inlineText(), marker)
	default:
		// pitfall and insight: sub-heading plus body.
		var sb strings.Builder
		fmt.Fprintf(&sb, "### %s\n\n", strings.TrimSpace(e.Title))
		if body := strings.TrimSpace(e.Body); body != "" {
			sb.WriteString(body)
			sb.WriteString("\n\n")
		}
		sb.WriteString(marker)
		return sb.String()
	}
}

// inlineText collapses title and body into a single line for the
// bullet-style formats.
func (e *Entry) inlineText() string {
	text := strings.TrimSpace(e.Title)
	if body := strings.TrimSpace(e.Body); body != "" {
		text += ": " + strings.Join(strings.Fields(body), " ")
	}
	return text
}

func (e *Entry) sourceMarker() string {
	if e.AgentID != "" {
		return fmt.Sprintf("(source: %s, agent: %s)", e.SourcePath, e.AgentID)
	}
	return fmt.Sprintf("(source: %s)", e.SourcePath)
}
