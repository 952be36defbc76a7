// Package sanitize guards every path that crosses the MCP boundary.
//
// Operations are gated by an allowlist of project roots (the
// INTENTD_ALLOWED_PROJECTS environment variable, colon-separated).
// Every root is canonicalized before use, and target paths must resolve
// inside their project root; traversal is rejected.
package sanitize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AllowedProjectsVar is the environment variable holding the allowlist.
const AllowedProjectsVar = "INTENTD_ALLOWED_PROJECTS"

var (
	// ErrAllowlistMissing indicates the allowlist variable is unset.
	ErrAllowlistMissing = fmt.Errorf(
		"environment variable %s is not set; set it to a colon-separated list of allowed project roots",
		AllowedProjectsVar)

	// ErrProjectNotAllowed indicates a project root outside the
	// allowlist.
	ErrProjectNotAllowed = errors.New("project root is not in the allowed projects list")

	// ErrPathTraversal indicates a path resolving outside its project
	// root.
	ErrPathTraversal = errors.New("path escapes the project root")

	// ErrEmptyPath indicates an empty path argument.
	ErrEmptyPath = errors.New("path cannot be empty")
)

// AllowedProjects returns the canonicalized allowlist from the
// environment.
func AllowedProjects() ([]string, error) {
	raw := os.Getenv(AllowedProjectsVar)
	if raw == "" {
		return nil, ErrAllowlistMissing
	}
	var allowed []string
	for _, entry := range strings.Split(raw, ":") {
		if entry == "" {
			continue
		}
		allowed = append(allowed, Canonical(entry))
	}
	if len(allowed) == 0 {
		return nil, ErrAllowlistMissing
	}
	return allowed, nil
}

// Canonical resolves a path to its absolute, symlink-free form. When
// symlink resolution fails (path does not exist yet) the absolute form
// is used.
func Canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return resolved
}

// ValidateProjectRoot canonicalizes projectRoot and confirms it is in
// the allowlist. Returns the canonical root.
func ValidateProjectRoot(projectRoot string, allowed []string) (string, error) {
	if projectRoot == "" {
		return "", ErrEmptyPath
	}
	canonical := Canonical(projectRoot)
	for _, root := range allowed {
		if canonical == root {
			return canonical, nil
		}
	}
	return "", fmt.Errorf("%w: %s (allowed: %s)",
		ErrProjectNotAllowed, canonical, strings.Join(allowed, ", "))
}

// ResolveWithinRoot canonicalizes target (resolving relative paths
// against the canonical root) and verifies it stays inside the root.
func ResolveWithinRoot(canonicalRoot, target string) (string, error) {
	if target == "" {
		return "", ErrEmptyPath
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(canonicalRoot, target)
	}
	canonical := Canonical(target)
	if canonical != canonicalRoot &&
		!strings.HasPrefix(canonical, canonicalRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s resolves outside %s", ErrPathTraversal, target, canonicalRoot)
	}
	return canonical, nil
}

// MatchProject resolves a project alias (full path or basename) against
// the allowlist. An ambiguous basename picks the exact match when one
// exists, otherwise the first match.
func MatchProject(alias string, allowed []string) (string, error) {
	var matches []string
	for _, root := range allowed {
		if root == alias || filepath.Base(root) == alias {
			matches = append(matches, root)
		}
	}
	if len(matches) == 0 {
		names := make([]string, len(allowed))
		for i, root := range allowed {
			names[i] = filepath.Base(root)
		}
		return "", fmt.Errorf("%w: %q (known projects: %s)",
			ErrProjectNotAllowed, alias, strings.Join(names, ", "))
	}
	for _, m := range matches {
		if m == alias {
			return m, nil
		}
	}
	return matches[0], nil
}
