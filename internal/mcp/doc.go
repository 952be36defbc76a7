// Package mcp exposes intentd's core operations as MCP tools over the
// stdio transport, using the MCP SDK
// (github.com/modelcontextprotocol/go-sdk/mcp).
//
// Every operation is gated by the INTENTD_ALLOWED_PROJECTS allowlist:
// project roots are canonicalized before use and target paths must
// resolve inside their root. Individual intent documents are also
// served as intent:// resources.
package mcp
