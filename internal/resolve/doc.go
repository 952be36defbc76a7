// Package resolve turns a file path into its covering intent context.
//
// Resolution is hierarchical: the nearest child document wins for a
// path, its ancestor documents up to the checkout root are inherited,
// and the root document (when present) is always first. The context
// resolver merges the chain into a single bundle, broadest scope first,
// with per-section provenance so a consumer can tell which document
// contributed which guidance.
//
// Resolution is purely structural: the queried path does not need to
// exist, and an uncovered path is a normal outcome rather than an
// error.
package resolve
