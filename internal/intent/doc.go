// Package intent implements the on-disk store for intent documents.
//
// An intent document is a small markdown file scoped to one directory:
// the checkout root carries at most one root document (CLAUDE.md by
// default) and any directory may carry one child document (AGENTS.md).
// Documents are split into heading-delimited sections; section bodies
// are treated as opaque text, including bullet lists and fenced code
// blocks.
//
// The package provides parsing into an ordered section list, byte-
// preserving append primitives used by the learning integrator, and an
// optional fsnotify-backed cache for long-lived processes such as the
// MCP server.
package intent
