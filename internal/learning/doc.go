// Package learning integrates captured facts into intent documents.
//
// A learning entry is a small typed fact (pitfall, check, pattern or
// insight) discovered while working under some path. Integration
// resolves the nearest covering document, routes the entry to the
// section its type maps to, rejects near-duplicate titles with a
// conservative token-overlap heuristic, and appends the formatted entry
// without touching any existing byte above the insertion point.
//
// Writes take an advisory file lock around the read-modify-write, and
// entries submitted through one Integrator are applied in FIFO order.
// Captures can also be staged to unique per-entry files first and
// integrated later, which keeps concurrent producers from ever racing
// on the same document.
package learning
