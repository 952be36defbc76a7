package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/intentd/internal/intent"
)

// Loader provides intent documents by directory. Both *intent.Store and
// *intent.Cache satisfy it.
type Loader interface {
	NodeAt(dir string) (*intent.Node, error)
	RootAt(checkout string) (*intent.Node, error)
}

// Chain is the ordered root-to-nearest sequence of nodes covering a
// path. An empty chain means the path is uncovered.
type Chain struct {
	// Checkout is the checkout top the chain was resolved against.
	Checkout string

	// Nodes is ordered broadest-first: the root document (if any),
	// then ancestor child documents, then the nearest covering one.
	Nodes []*intent.Node
}

// Uncovered reports whether no node covers the queried path.
func (c Chain) Uncovered() bool { return len(c.Nodes) == 0 }

// Nearest returns the most specific covering node, or nil when
// uncovered.
func (c Chain) Nearest() *intent.Node {
	if len(c.Nodes) == 0 {
		return nil
	}
	return c.Nodes[len(c.Nodes)-1]
}

// Paths returns the chain's document paths, root first.
func (c Chain) Paths() []string {
	paths := make([]string, len(c.Nodes))
	for i, n := range c.Nodes {
		paths[i] = n.Path
	}
	return paths
}

// Resolver walks the directory tree to find the covering nodes for a
// path. The nearest-wins rule lives here and only here; every other
// component resolves through it.
type Resolver struct {
	loader   Loader
	checkout string
	logger   *zap.Logger
}

// NewResolver creates a resolver scoped to one checkout.
func NewResolver(loader Loader, checkout string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{loader: loader, checkout: filepath.Clean(checkout), logger: logger}
}

// Checkout returns the checkout top this resolver is scoped to.
func (r *Resolver) Checkout() string { return r.checkout }

// Chain resolves the ancestor chain for path. The path may name a file
// or a directory and does not need to exist. Paths outside the checkout
// resolve as uncovered.
func (r *Resolver) Chain(path string) (Chain, error) {
	dir, err := r.startDir(path)
	if err != nil {
		return Chain{}, err
	}

	chain := Chain{Checkout: r.checkout}
	if !withinCheckout(r.checkout, dir) {
		return chain, nil
	}

	// Collect child documents walking upward, nearest first.
	var children []*intent.Node
	for {
		node, err := r.loader.NodeAt(dir)
		if err != nil {
			return Chain{}, fmt.Errorf("resolving node at %s: %w", dir, err)
		}
		if node != nil {
			children = append(children, node)
		}
		if dir == r.checkout {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	root, err := r.loader.RootAt(r.checkout)
	if err != nil {
		return Chain{}, fmt.Errorf("resolving root node: %w", err)
	}

	// A checkout top holding both document kinds is a convention
	// violation: the root document wins there, with a warning.
	if root != nil && len(children) > 0 &&
		children[len(children)-1].ScopeDir == r.checkout {
		r.logger.Warn("both root and child documents at checkout top, root wins",
			zap.String("checkout", r.checkout))
		children = children[:len(children)-1]
	}

	if root != nil {
		chain.Nodes = append(chain.Nodes, root)
	}
	// Reverse children into root-first order.
	for i := len(children) - 1; i >= 0; i-- {
		chain.Nodes = append(chain.Nodes, children[i])
	}
	return chain, nil
}

// startDir returns the directory resolution starts from: the path
// itself when it is (or looks like) a directory, its parent otherwise.
func (r *Resolver) startDir(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.checkout, path)
	}
	path = filepath.Clean(path)

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path, nil
	}
	return filepath.Dir(path), nil
}

// withinCheckout reports whether dir is the checkout top or below it.
func withinCheckout(checkout, dir string) bool {
	return dir == checkout || strings.HasPrefix(dir, checkout+string(filepath.Separator))
}
