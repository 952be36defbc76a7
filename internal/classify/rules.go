package classify

import (
	"context"
	"regexp"
)

// captureRule pairs a compiled regex with the reason it reports. Rules
// are evaluated in order; the first match wins.
type captureRule struct {
	regex  *regexp.Regexp
	reason string
}

// RuleGate is the offline default gate: ordered regex rules over the
// transcript. More specific patterns come first to avoid shadowing.
type RuleGate struct {
	rules []captureRule
}

// NewRuleGate creates a gate with the built-in rules.
func NewRuleGate() *RuleGate {
	return &RuleGate{rules: buildCaptureRules()}
}

func buildCaptureRules() []captureRule {
	return []captureRule{
		{
			regex:  regexp.MustCompile(`(?i)\b(?:root\s+cause|turned\s+out|the\s+(?:bug|issue|problem)\s+was|caused\s+by|due\s+to\s+a)\b`),
			reason: "diagnosis language",
		},
		{
			regex:  regexp.MustCompile(`(?i)\b(?:gotcha|pitfall|footgun|surprising(?:ly)?|counter-?intuitive|undocumented)\b`),
			reason: "pitfall language",
		},
		{
			regex:  regexp.MustCompile(`(?i)\b(?:always|never|must|make\s+sure\s+to|remember\s+to|don'?t\s+forget)\b.{0,60}\b(?:before|when|after|otherwise)\b`),
			reason: "rule-of-thumb language",
		},
		{
			regex:  regexp.MustCompile(`(?i)\b(?:workaround|had\s+to\s+instead|the\s+fix\s+was|fixed\s+(?:it\s+)?by)\b`),
			reason: "workaround language",
		},
	}
}

// ShouldCapture never returns ErrUnavailable: the rules are local.
func (g *RuleGate) ShouldCapture(_ context.Context, transcript string) (Decision, error) {
	for _, rule := range g.rules {
		if rule.regex.MatchString(transcript) {
			return Decision{Capture: true, Reason: rule.reason}, nil
		}
	}
	return Decision{Capture: false}, nil
}
