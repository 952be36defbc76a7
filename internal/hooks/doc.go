// Package hooks adapts intentd to host-runtime lifecycle hooks.
//
// The host (an agent runtime) decides when to invoke a hook and feeds a
// JSON payload on stdin; this package parses the payload, calls the
// core, and writes any context to stdout. Hooks are fail-open: a hook
// that cannot do its job reports nothing rather than blocking the host.
package hooks
