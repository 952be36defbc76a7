// Package classify decides whether a session transcript contains a
// capture-worthy learning.
//
// The decision point is advisory and fail-open: a gate may return
// ErrUnavailable (service down, missing credentials, timeout) and every
// caller treats that identically to a negative decision. Nothing blocks
// or retries on this path.
package classify
