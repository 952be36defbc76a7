package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/intentd/internal/sanitize"
)

const resourceScheme = "intent://"

// registerResources exposes individual intent documents as readable
// resources. Only the two document filenames are served; anything else
// in a checkout stays invisible to clients.
func (s *Server) registerResources() {
	s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "{project}/{+path}",
		Name:        "intent-document",
		Description: "A single intent document (root or directory scope) from an allowed project",
		MIMEType:    "text/markdown",
	}, s.readDocumentResource)
}

func (s *Server) readDocumentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	project, rel, err := splitResourceURI(uri)
	if err != nil {
		return nil, err
	}

	base := filepath.Base(rel)
	if base != s.store.RootName() && base != s.store.ChildName() {
		return nil, fmt.Errorf("resource %q: only %s and %s documents are served",
			uri, s.store.RootName(), s.store.ChildName())
	}

	root, err := sanitize.MatchProject(project, s.allowed)
	if err != nil {
		return nil, fmt.Errorf("resource %q: %w", uri, err)
	}
	docPath, err := sanitize.ResolveWithinRoot(root, rel)
	if err != nil {
		return nil, fmt.Errorf("resource %q: %w", uri, err)
	}

	raw, err := os.ReadFile(docPath)
	if err != nil {
		return nil, fmt.Errorf("resource %q: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     string(raw),
		}},
	}, nil
}

// splitResourceURI parses intent://<project>/<relative path>. The
// project component is an allowlist alias (basename or full root path
// with slashes encoded away by the client).
func splitResourceURI(uri string) (project, rel string, err error) {
	rest, ok := strings.CutPrefix(uri, resourceScheme)
	if !ok {
		return "", "", fmt.Errorf("resource %q: unsupported scheme", uri)
	}
	project, rel, ok = strings.Cut(rest, "/")
	if !ok || project == "" || rel == "" {
		return "", "", fmt.Errorf("resource %q: want intent://<project>/<path>", uri)
	}
	return project, rel, nil
}
