package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/autoname-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ask what a
file would be renamed to. The server never renames files.

Tools:
  propose_name  - the proposed name, matching rule and score for a file
  inspect_file  - every datum extracted from a file

Resources:
  autoname://rules, autoname://rules/{index}, autoname://templates

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  autoname mcp serve

  # HTTP mode
  autoname mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ctx := cmd.Context()
	rt, stop, err := startRuntime(ctx, Session{})
	if err != nil {
		return err
	}
	defer stop()

	server, err := mcp.NewServer(&mcp.Ports{Naming: rt.Naming})
	if err != nil {
		return err
	}

	// stdout carries the protocol in stdio mode.
	go func() {
		if err := watchRules(ctx, rt, io.Discard); err != nil {
			logger.Warn("rules watcher stopped: %v", err)
		}
	}()

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
