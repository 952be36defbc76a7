package learning

import (
	"strings"

	"github.com/fyrsmithlabs/intentd/internal/intent"
)

const (
	// DefaultDuplicateThreshold is the minimum normalized token overlap
	// for two titles to count as duplicates. Inherited from the original
	// heuristic tuning; configurable because nothing proves 0.6 beats
	// nearby values.
	DefaultDuplicateThreshold = 0.6

	// minSharedTokenLen guards against matches driven purely by stop
	// words: at least one shared token must be this long.
	minSharedTokenLen = 3
)

// Detector decides whether a candidate title duplicates an existing
// entry in a section. Deliberately conservative: a missed duplicate
// costs one redundant entry, a false positive silently drops a fact.
type Detector struct {
	threshold float64
}

// NewDetector creates a detector. A non-positive threshold falls back
// to DefaultDuplicateThreshold.
func NewDetector(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultDuplicateThreshold
	}
	return &Detector{threshold: threshold}
}

// IsDuplicate reports whether the target section of node already holds
// an entry whose title is sufficiently similar to candidate.
func (d *Detector) IsDuplicate(node *intent.Node, sectionName, candidate string) bool {
	sec, ok := node.Section(sectionName)
	if !ok {
		return false
	}
	for _, title := range entryTitles(sec.Body) {
		if d.Similar(title, candidate) {
			return true
		}
	}
	return false
}

// Similar reports whether two titles overlap above the threshold and
// share at least one multi-character token.
func (d *Detector) Similar(a, b string) bool {
	ta := normalizeTokens(a)
	tb := normalizeTokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return false
	}

	set := make(map[string]bool, len(ta))
	for _, tok := range ta {
		set[tok] = true
	}

	shared := 0
	sharedLong := false
	counted := make(map[string]bool, len(tb))
	for _, tok := range tb {
		if set[tok] && !counted[tok] {
			counted[tok] = true
			shared++
			if len(tok) >= minSharedTokenLen {
				sharedLong = true
			}
		}
	}

	shorter := len(uniqueTokens(ta))
	if lb := len(uniqueTokens(tb)); lb < shorter {
		shorter = lb
	}
	if shorter == 0 {
		return false
	}

	ratio := float64(shared) / float64(shorter)
	return ratio >= d.threshold && sharedLong
}

// entryTitles extracts the existing entry titles of a section body:
// sub-entry headings and leading bullet text, with checkbox and
// "Preferred:" decorations and trailing source markers stripped.
func entryTitles(body string) []string {
	var titles []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "### "):
			titles = append(titles, strings.TrimSpace(trimmed[4:]))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			text := strings.TrimSpace(trimmed[2:])
			for _, prefix := range []string{"[ ]", "[x]", "[X]"} {
				text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
			}
			text = strings.TrimSpace(strings.TrimPrefix(text, "Preferred:"))
			if i := strings.Index(text, "(source:"); i >= 0 {
				text = strings.TrimSpace(text[:i])
			}
			if text != "" {
				titles = append(titles, text)
			}
		}
	}
	return titles
}

// normalizeTokens lowercases, strips punctuation and splits on
// whitespace.
func normalizeTokens(title string) []string {
	lowered := strings.ToLower(title)
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return ' '
		}
	}, lowered)
	return strings.Fields(cleaned)
}

func uniqueTokens(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	return set
}
