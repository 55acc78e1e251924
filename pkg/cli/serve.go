package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcpchecker/envelope/pkg/mcpserver"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the normalize tool over MCP",
		Long: `Run an MCP server exposing a single "normalize" tool.
Without --http the server speaks MCP over stdio.

Examples:
  envelope serve
  envelope serve --http 127.0.0.1:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server, err := mcpserver.New(Version)
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			if err := mcpserver.Serve(ctx, server, addr); err != nil && ctx.Err() == nil {
				return fmt.Errorf("MCP server failed: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "http", "", "Serve streamable HTTP on this address instead of stdio")

	return cmd
}
