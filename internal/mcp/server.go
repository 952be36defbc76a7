package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/intentd/internal/audit"
	"github.com/fyrsmithlabs/intentd/internal/config"
	"github.com/fyrsmithlabs/intentd/internal/intent"
	"github.com/fyrsmithlabs/intentd/internal/learning"
	"github.com/fyrsmithlabs/intentd/internal/resolve"
	"github.com/fyrsmithlabs/intentd/internal/sanitize"
	"github.com/fyrsmithlabs/intentd/internal/validate"
)

// Server exposes intent documents over MCP, calling internal packages
// directly on the stdio transport.
type Server struct {
	mcp       *mcp.Server
	cfg       *config.Config
	allowed   []string
	store     *intent.Store
	cache     *intent.Cache
	detector  *learning.Detector
	validator *validate.Validator
	auditor   *audit.Auditor
	logger    *zap.Logger
}

// Options configures the MCP server.
type Options struct {
	// Name is the server implementation name (default: "intentd")
	Name string

	// Version is the server version (default: "1.0.0")
	Version string

	// Logger for structured logging
	Logger *zap.Logger
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		Name:    "intentd",
		Version: "1.0.0",
		Logger:  zap.NewNop(),
	}
}

// NewServer creates an MCP server serving the projects named in the
// INTENTD_ALLOWED_PROJECTS allowlist. Startup fails when the allowlist
// is unset so a misconfigured server never serves anything.
func NewServer(cfg *config.Config, opts *Options) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	allowed, err := sanitize.AllowedProjects()
	if err != nil {
		return nil, err
	}

	store := intent.NewStore(cfg.Documents.RootName, cfg.Documents.ChildName)
	cache, err := intent.NewCache(store, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("create document cache: %w", err)
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    opts.Name,
			Version: opts.Version,
		},
		nil,
	)

	s := &Server{
		mcp:      mcpServer,
		cfg:      cfg,
		allowed:  allowed,
		store:    store,
		cache:    cache,
		detector: learning.NewDetector(cfg.Dedup.Threshold),
		validator: validate.New(validate.Config{
			SoftSizeLimit: cfg.Validation.SoftSizeLimit,
			HardSizeLimit: cfg.Validation.HardSizeLimit,
			MaxBullets:    cfg.Validation.MaxBullets,
		}),
		auditor: audit.NewAuditor(store, audit.Config{
			MaxAgeDays:  cfg.Staleness.MaxAgeDays,
			WindowDays:  cfg.Staleness.WindowDays,
			MaxCommits:  cfg.Staleness.MaxCommits,
			DocPatterns: cfg.Staleness.DocPatterns,
		}, opts.Logger),
		logger: opts.Logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// resolverFor builds a resolver rooted at a validated project checkout.
// Reads go through the watch cache so edits made while the server runs
// are picked up without restarts.
func (s *Server) resolverFor(checkout string) *resolve.Resolver {
	return resolve.NewResolver(s.cache, checkout, s.logger)
}

// checkoutFor validates a project root against the allowlist and
// resolves a target path inside it. An empty target means the checkout
// itself.
func (s *Server) checkoutFor(projectRoot, target string) (checkout, resolved string, err error) {
	checkout, err = sanitize.ValidateProjectRoot(projectRoot, s.allowed)
	if err != nil {
		return "", "", err
	}
	if target == "" {
		return checkout, checkout, nil
	}
	resolved, err = sanitize.ResolveWithinRoot(checkout, target)
	if err != nil {
		return "", "", err
	}
	return checkout, resolved, nil
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport",
		zap.Int("allowed_projects", len(s.allowed)))
	transport := &mcp.StdioTransport{}
	if err := s.mcp.Run(ctx, transport); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}

// Close releases the document watch cache.
func (s *Server) Close() error {
	return s.cache.Close()
}
