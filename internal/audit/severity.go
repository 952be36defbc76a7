package audit

import "encoding/json"

// Severity is a staleness tier. Reports carry the maximum triggered
// tier, not a sum.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

var severityNames = map[Severity]string{
	SeverityNone:   "none",
	SeverityLow:    "low",
	SeverityMedium: "medium",
	SeverityHigh:   "high",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON encodes the severity as its name so the report stays
// machine-checkable without magic numbers.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// raise returns the higher of two severities.
func raise(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}
