package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alastorid/ytscribe/internal"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server exposing transcription tools",
	Long: `Run a Model Context Protocol (MCP) server that exposes ytscribe
functionality as tools.

The MCP server provides three tools:
- transcribe_media: transcribe a video URL or local media file
- get_video_metadata: fetch title/date/duration metadata
- clean_transcript: strip annotations and filler words from text

Transport options:
- stdio (default): standard MCP transport via stdin/stdout
- http: HTTP transport on the specified port (use --port to configure)`,
	Example: `  # Run MCP server with stdio transport
  ytscribe mcp

  # Run MCP server with HTTP transport on port 8080
  ytscribe mcp --transport=http --port=8080`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// MCP uses the stdio protocol, so terminal output must stay clean
		config.Verbose = false
		config.Quiet = true
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		app := internal.NewApp(config)
		mcpServer := internal.NewMCPServer(app)

		if transport == "http" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Starting ytscribe MCP server on HTTP port %d...\n", port)
		}

		// Blocks until the context is cancelled
		return mcpServer.Start(cmd.Context(), transport, port)
	},
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol (stdio or http)")
	mcpCmd.Flags().Int("port", 8080, "Port for HTTP transport (only used with --transport=http)")
	rootCmd.AddCommand(mcpCmd)
}
