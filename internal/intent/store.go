package intent

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// DefaultRootName is the root document filename at the checkout top.
	DefaultRootName = "CLAUDE.md"

	// DefaultChildName is the per-directory child document filename.
	DefaultChildName = "AGENTS.md"
)

// Store reads intent documents from disk using configured filenames.
type Store struct {
	rootName  string
	childName string
}

// NewStore creates a store. Empty names fall back to the defaults.
func NewStore(rootName, childName string) *Store {
	if rootName == "" {
		rootName = DefaultRootName
	}
	if childName == "" {
		childName = DefaultChildName
	}
	return &Store{rootName: rootName, childName: childName}
}

// RootName returns the configured root document filename.
func (s *Store) RootName() string { return s.rootName }

// ChildName returns the configured child document filename.
func (s *Store) ChildName() string { return s.childName }

// Load reads and parses the document at path. A document whose headings
// cannot be parsed degrades to zero sections with a warning; only I/O
// failures are returned as errors.
func (s *Store) Load(path string, isRoot bool) (*Node, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat intent document: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intent document: %w", err)
	}

	node := &Node{
		Path:     path,
		ScopeDir: filepath.Dir(path),
		IsRoot:   isRoot,
		ModTime:  info.ModTime(),
		raw:      raw,
	}

	sections, err := parseSections(raw)
	if err != nil {
		if errors.Is(err, ErrMalformedDocument) {
			node.Warnings = append(node.Warnings, err.Error())
			return node, nil
		}
		return nil, err
	}
	node.Sections = sections
	return node, nil
}

// NodeAt returns the child document covering dir, or nil when the
// directory has none.
func (s *Store) NodeAt(dir string) (*Node, error) {
	return s.loadIfExists(filepath.Join(dir, s.childName), false)
}

// RootAt returns the root document at the checkout top, or nil when the
// checkout has none.
func (s *Store) RootAt(checkout string) (*Node, error) {
	return s.loadIfExists(filepath.Join(checkout, s.rootName), true)
}

func (s *Store) loadIfExists(path string, isRoot bool) (*Node, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat intent document: %w", err)
	}
	return s.Load(path, isRoot)
}
