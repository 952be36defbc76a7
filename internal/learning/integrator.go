package learning

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/intentd/internal/intent"
	"github.com/fyrsmithlabs/intentd/internal/resolve"
)

// Outcome is the machine-checkable result of an integration attempt.
type Outcome string

const (
	// OutcomeIntegrated means the entry was appended and persisted.
	OutcomeIntegrated Outcome = "integrated"

	// OutcomeDuplicate means an equivalent fact already exists; the
	// entry was discarded. Expected, not an error.
	OutcomeDuplicate Outcome = "duplicate"

	// OutcomeNoCoveringNode means not even a root document covers the
	// source path. A node is never fabricated implicitly.
	OutcomeNoCoveringNode Outcome = "no_covering_node"
)

// Result reports what happened to one entry.
type Result struct {
	Outcome  Outcome `json:"outcome"`
	NodePath string  `json:"node,omitempty"`
	Section  string  `json:"section,omitempty"`
}

// Integrator appends learning entries to their covering documents.
type Integrator struct {
	resolver *resolve.Resolver
	store    *intent.Store
	detector *Detector
	logger   *zap.Logger

	// mu keeps same-process integrations FIFO so audit trails stay
	// deterministic.
	mu sync.Mutex
}

// NewIntegrator creates an integrator.
func NewIntegrator(resolver *resolve.Resolver, store *intent.Store, detector *Detector, logger *zap.Logger) *Integrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if detector == nil {
		detector = NewDetector(0)
	}
	return &Integrator{
		resolver: resolver,
		store:    store,
		detector: detector,
		logger:   logger,
	}
}

// Integrate resolves the covering node for the entry's source path and
// appends the formatted entry into the section its type maps to,
// creating the section at end of document when absent.
func (i *Integrator) Integrate(ctx context.Context, entry Entry) (*Result, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	section, err := entry.Type.Section()
	if err != nil {
		return nil, err
	}

	chain, err := i.resolver.Chain(entry.SourcePath)
	if err != nil {
		return nil, err
	}
	if chain.Uncovered() {
		i.logger.Info("learning not integrated, no covering node",
			zap.String("source", entry.SourcePath))
		return &Result{Outcome: OutcomeNoCoveringNode}, nil
	}

	// Only the nearest node is ever mutated; inherited ancestors stay
	// untouched by leaf-scoped facts.
	target := chain.Nearest()

	i.mu.Lock()
	defer i.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lock, err := acquireLock(target.Path)
	if err != nil {
		return nil, err
	}
	defer lock.release()

	// Re-read under the lock so a concurrent writer's append is part of
	// the base we extend.
	node, err := i.store.Load(target.Path, target.IsRoot)
	if err != nil {
		return nil, err
	}

	if i.detector.IsDuplicate(node, section, entry.Title) {
		i.logger.Info("learning rejected as duplicate",
			zap.String("node", node.Path),
			zap.String("section", section),
			zap.String("title", entry.Title))
		return &Result{Outcome: OutcomeDuplicate, NodePath: node.Path, Section: section}, nil
	}

	block := entry.Format()
	var content []byte
	if _, ok := node.Section(section); ok {
		content, err = node.AppendToSection(section, block)
		if err != nil {
			return nil, err
		}
	} else {
		content = node.AppendSection(section, block)
	}

	if err := writeAtomic(node.Path, content); err != nil {
		return nil, err
	}

	i.logger.Info("learning integrated",
		zap.String("node", node.Path),
		zap.String("section", section),
		zap.String("type", string(entry.Type)),
		zap.String("agent", entry.AgentID))
	return &Result{Outcome: OutcomeIntegrated, NodePath: node.Path, Section: section}, nil
}

// writeAtomic writes content to a temp file in the document's directory
// and renames it into place, preserving the original file mode.
func writeAtomic(path string, content []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting temp file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing document: %w", err)
	}
	return nil
}
