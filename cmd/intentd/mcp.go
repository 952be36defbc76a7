package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	intentmcp "github.com/fyrsmithlabs/intentd/internal/mcp"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long: `Run the intentd MCP server on the stdio transport. The server only
touches projects named in the INTENTD_ALLOWED_PROJECTS environment
variable (colon-separated absolute paths) and refuses to start without
it.

All logging goes to stderr; stdout carries the protocol.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	server, err := intentmcp.NewServer(cfg, &intentmcp.Options{
		Name:    "intentd",
		Version: version,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("create MCP server: %w", err)
	}
	defer server.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}
