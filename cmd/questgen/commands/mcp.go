package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpTransport "github.com/arfaouiahmed1/stage/internal/transport/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start an MCP server on stdio",
		Long: `Start an MCP server on stdio.

Exposes generate_questions, retrieve_context and list_suggestions as
Model Context Protocol tools so an agent can call them directly. Logs
go to stderr; stdout carries the protocol.`,
		Example: `  # Configure in an MCP client:
  # {
  #   "mcpServers": {
  #     "questgen": {
  #       "command": "questgen",
  #       "args": ["mcp", "--quiet"]
  #     }
  #   }
  # }`,
		RunE: runMCP,
	}

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := startSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	server := newMCPServer(sess)
	sess.logger.Info("MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		sess.logger.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
	}
	return nil
}

func newMCPServer(sess *session) *mcpserver.MCPServer {
	return mcpTransport.NewServer(sess.engine, sess.logger)
}
