package intent

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Cache wraps a Store with a parsed-node cache for long-lived processes.
//
// Cached entries are invalidated by filesystem events on the document's
// directory, so an external edit to AGENTS.md is picked up on the next
// read. Short-lived CLI invocations should use the Store directly.
type Cache struct {
	store  *Store
	logger *zap.Logger

	mu      sync.RWMutex
	nodes   map[string]*Node // keyed by document path
	watched map[string]bool  // directories added to the watcher

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewCache creates a node cache backed by store. The caller must Close
// it to stop the watcher goroutine.
func NewCache(store *Store, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}

	c := &Cache{
		store:   store,
		logger:  logger,
		nodes:   make(map[string]*Node),
		watched: make(map[string]bool),
		watcher: watcher,
		done:    make(chan struct{}),
	}
	go c.watchLoop()
	return c, nil
}

// NodeAt returns the child document covering dir, loading through the
// cache.
func (c *Cache) NodeAt(dir string) (*Node, error) {
	return c.load(filepath.Join(dir, c.store.childName), false)
}

// RootAt returns the root document at the checkout top, loading through
// the cache.
func (c *Cache) RootAt(checkout string) (*Node, error) {
	return c.load(filepath.Join(checkout, c.store.rootName), true)
}

func (c *Cache) load(path string, isRoot bool) (*Node, error) {
	c.mu.RLock()
	node, ok := c.nodes[path]
	c.mu.RUnlock()
	if ok {
		return node, nil
	}

	node, err := c.store.loadIfExists(path, isRoot)
	if err != nil {
		return nil, err
	}
	if node == nil {
		// Absent documents are not cached: a later write must be seen.
		return nil, nil
	}

	c.mu.Lock()
	c.nodes[path] = node
	c.mu.Unlock()
	c.watchDir(filepath.Dir(path))
	return node, nil
}

// watchDir adds a directory to the watcher once.
func (c *Cache) watchDir(dir string) {
	c.mu.Lock()
	already := c.watched[dir]
	if !already {
		c.watched[dir] = true
	}
	c.mu.Unlock()
	if already {
		return
	}
	if err := c.watcher.Add(dir); err != nil {
		c.logger.Warn("cache: watch failed, directory will not invalidate",
			zap.String("dir", dir), zap.Error(err))
	}
}

// watchLoop invalidates cached nodes when their file changes.
func (c *Cache) watchLoop() {
	for {
		select {
		case <-c.done:
			return
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			c.mu.Lock()
			if _, cached := c.nodes[event.Name]; cached {
				delete(c.nodes, event.Name)
			}
			c.mu.Unlock()
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn("cache: watcher error", zap.Error(err))
		}
	}
}

// Invalidate drops a cached document, if present.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.nodes, path)
	c.mu.Unlock()
}

// Close stops the watcher goroutine.
func (c *Cache) Close() error {
	close(c.done)
	return c.watcher.Close()
}
