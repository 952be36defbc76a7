package classify

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the gate could not produce a decision.
// Callers must treat it as a negative decision, never as a failure.
var ErrUnavailable = errors.New("capture gate unavailable")

// Decision is the gate's verdict on a transcript.
type Decision struct {
	// Capture reports whether the transcript likely contains a
	// learning worth integrating.
	Capture bool `json:"capture"`

	// Reason is a short explanation for operator review.
	Reason string `json:"reason,omitempty"`
}

// Gate is the capability interface for the capture decision.
type Gate interface {
	// ShouldCapture examines a transcript tail and returns a decision.
	// An ErrUnavailable return means "no decision"; callers proceed as
	// if the decision were negative.
	ShouldCapture(ctx context.Context, transcript string) (Decision, error)
}

// FailOpen wraps a gate call with the hard-coded caller policy:
// unavailable equals negative.
func FailOpen(ctx context.Context, gate Gate, transcript string) Decision {
	if gate == nil {
		return Decision{Capture: false, Reason: "no gate configured"}
	}
	decision, err := gate.ShouldCapture(ctx, transcript)
	if err != nil {
		return Decision{Capture: false, Reason: "gate unavailable"}
	}
	return decision
}
