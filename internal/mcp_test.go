package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	var request mcp.CallToolRequest
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("result has %d content items, want 1", len(result.Content))
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestMCPCleanTool(t *testing.T) {
	app := NewApp(testConfig(t.TempDir()))
	server := NewMCPServer(app)

	result, err := server.handleClean(context.Background(),
		toolRequest("clean_transcript", map[string]any{
			"text": "[MUSIC] hello hello\nhello hello\num final line",
		}))
	if err != nil {
		t.Fatalf("handleClean failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("handleClean returned tool error: %v", result.Content)
	}

	got := resultText(t, result)
	want := "hello hello\nfinal line"
	if got != want {
		t.Errorf("cleaned text = %q, want %q", got, want)
	}
}

func TestMCPCleanToolMissingArgument(t *testing.T) {
	app := NewApp(testConfig(t.TempDir()))
	server := NewMCPServer(app)

	result, err := server.handleClean(context.Background(),
		toolRequest("clean_transcript", map[string]any{}))
	if err != nil {
		t.Fatalf("missing argument should surface as a tool error, not a protocol error: %v", err)
	}
	if !result.IsError {
		t.Error("missing text argument should produce an error result")
	}
}

func TestMCPTranscribeTool(t *testing.T) {
	orig := lookPath
	lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	defer func() { lookPath = orig }()

	runner := &countingPipelineRunner{output: "tool transcript"}
	app, _ := newTestApp(t, runner)
	server := NewMCPServer(app)

	mediaFile := filepath.Join(t.TempDir(), "talk.mp4")
	if err := os.WriteFile(mediaFile, []byte("fake media"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := server.handleTranscribe(context.Background(),
		toolRequest("transcribe_media", map[string]any{"input": mediaFile}))
	if err != nil {
		t.Fatalf("handleTranscribe failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("handleTranscribe returned tool error: %v", result.Content)
	}

	if got := resultText(t, result); got != "tool transcript" {
		t.Errorf("tool result = %q, want pipeline output", got)
	}
	if runner.calls != 1 {
		t.Errorf("pipeline invoked %d times, want 1", runner.calls)
	}
}

func TestMCPTranscribeToolReportsFailure(t *testing.T) {
	orig := lookPath
	lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	defer func() { lookPath = orig }()

	runner := &countingPipelineRunner{err: os.ErrDeadlineExceeded}
	app, _ := newTestApp(t, runner)
	server := NewMCPServer(app)

	mediaFile := filepath.Join(t.TempDir(), "talk.mp4")
	if err := os.WriteFile(mediaFile, []byte("fake media"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := server.handleTranscribe(context.Background(),
		toolRequest("transcribe_media", map[string]any{"input": mediaFile}))
	if err != nil {
		t.Fatalf("pipeline failure should surface as a tool error, not a protocol error: %v", err)
	}
	if !result.IsError {
		t.Error("failed transcription should produce an error result")
	}
	if got := resultText(t, result); !strings.Contains(got, "transcription failed") {
		t.Errorf("error result = %q, want transcription failure message", got)
	}
}

func TestMCPMetadataToolMissingArgument(t *testing.T) {
	app := NewApp(testConfig(t.TempDir()))
	server := NewMCPServer(app)

	result, err := server.handleMetadata(context.Background(),
		toolRequest("get_video_metadata", map[string]any{}))
	if err != nil {
		t.Fatalf("missing argument should surface as a tool error, not a protocol error: %v", err)
	}
	if !result.IsError {
		t.Error("missing url argument should produce an error result")
	}
}
