package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App) *MCPServer {
	mcpServer := server.NewMCPServer(
		"ytscribe-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("transcribe_media",
		mcp.WithDescription("Transcribe a video URL or local media file to text. Results are cached; repeated calls for the same input return the existing transcript."),
		mcp.WithString("input",
			mcp.Description("Video URL, video ID, or local media file path"),
			mcp.Required(),
		),
	), s.handleTranscribe)

	s.mcpServer.AddTool(mcp.NewTool("get_video_metadata",
		mcp.WithDescription("Get title, channel, upload date and duration for a remote video."),
		mcp.WithString("url",
			mcp.Description("Video URL or ID"),
			mcp.Required(),
		),
	), s.handleMetadata)

	s.mcpServer.AddTool(mcp.NewTool("clean_transcript",
		mcp.WithDescription("Strip timestamp annotations and filler tokens from a transcript and collapse duplicate lines."),
		mcp.WithString("text",
			mcp.Description("Raw transcript text"),
			mcp.Required(),
		),
	), s.handleClean)
}

// handleTranscribe implements the transcribe_media tool
func (s *MCPServer) handleTranscribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := request.RequireString("input")
	if err != nil {
		return mcp.NewToolResultError("input parameter is required and must be a string"), nil
	}

	if err := s.app.CheckRequirements(); err != nil {
		return mcp.NewToolResultErrorFromErr("missing dependencies", err), nil
	}

	result, err := s.app.Transcribe(ctx, input, false)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("transcription failed", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(result.Text)},
	}, nil
}

// handleMetadata implements the get_video_metadata tool
func (s *MCPServer) handleMetadata(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}

	metadata, err := s.app.Metadata(ctx, url)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("metadata error", err), nil
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Title: %s\n", metadata.Title))
	buf.WriteString(fmt.Sprintf("Channel: %s\n", metadata.Channel))
	buf.WriteString(fmt.Sprintf("Upload date: %s\n", metadata.UploadDate))
	buf.WriteString(fmt.Sprintf("Duration: %.0f seconds\n", metadata.Duration))

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleClean implements the clean_transcript tool
func (s *MCPServer) handleClean(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text parameter is required and must be a string"), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(s.app.Clean(text))},
	}, nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(addr)
	}

	// Default to stdio transport
	return server.ServeStdio(s.mcpServer)
}
