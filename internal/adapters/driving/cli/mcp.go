package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/mcp"
	"github.com/custodia-labs/ragchat/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server exposing the ingest, ask, reset,
status and models tools.

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead.

Examples:
  ragchat mcp serve
  ragchat mcp serve --port 8080
  ragchat mcp serve --port 8080 --host 0.0.0.0

The Gemini API key is read from GEMINI_API_KEY or GOOGLE_API_KEY. Clients
may also pass api_key to the ask and models tools.`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("host", "localhost", "HTTP listen address, used with --port")
	needsSession(mcpServeCmd)
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, _ := cmd.Flags().GetInt("port")
	host, _ := cmd.Flags().GetString("host")
	if port < 0 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}

	server, err := mcp.NewServer(mcpPorts())
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if events := watchPrompts(ctx); events != nil {
		go func() {
			for name := range events {
				logger.Info("reloaded %s prompt", name)
			}
		}()
	}

	if port == 0 {
		return server.Run(ctx)
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	cmd.PrintErrf("MCP server listening on http://%s\n", addr)
	return server.RunHTTP(ctx, addr)
}

// mcpPorts adapts the configured services. Prompts stays a nil interface
// when no prompt source is set so the prompt resource is not registered.
func mcpPorts() *mcp.Ports {
	ports := &mcp.Ports{
		Session: sessionService,
		Models:  modelSelector,
		APIKey:  apiKeyFromEnv(),
	}
	if promptSource != nil {
		ports.Prompts = promptSource
	}
	return ports
}
