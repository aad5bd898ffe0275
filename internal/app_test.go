package internal

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// countingPipelineRunner stands in for the subprocess pipeline in tests
type countingPipelineRunner struct {
	calls  int
	output string
	err    error
}

func (c *countingPipelineRunner) run(ctx context.Context, pipeline *Pipeline, out io.Writer) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	_, err := io.WriteString(out, c.output)
	return err
}

func newTestApp(t *testing.T, runner *countingPipelineRunner) (*App, *Config) {
	t.Helper()
	dir := t.TempDir()

	config := testConfig(dir)
	model := filepath.Join(dir, "ggml-base.en.bin")
	if err := os.WriteFile(model, []byte("ggml"), 0644); err != nil {
		t.Fatal(err)
	}
	config.ModelPath = model

	app := NewApp(config, WithPipelineRunner(runner.run))
	return app, config
}

func TestTranscribeLocalFile(t *testing.T) {
	runner := &countingPipelineRunner{output: "transcribed text\n"}
	app, config := newTestApp(t, runner)

	mediaFile := filepath.Join(t.TempDir(), "foo.mp4")
	if err := os.WriteFile(mediaFile, []byte("fake media"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := app.Transcribe(context.Background(), mediaFile, false)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if runner.calls != 1 {
		t.Errorf("pipeline invoked %d times, want 1", runner.calls)
	}
	if result.Cached {
		t.Error("first run should not be cached")
	}
	if result.Text != "transcribed text\n" {
		t.Errorf("text = %q, want pipeline output", result.Text)
	}

	wantPath := filepath.Join(config.TranscriptsDir, "foo.txt")
	if result.Path != wantPath {
		t.Errorf("path = %q, want %q", result.Path, wantPath)
	}
	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("transcript file missing: %v", err)
	}
	if string(data) != "transcribed text\n" {
		t.Errorf("file content = %q, want pipeline output", string(data))
	}
	if !FileExists(SidecarPath(wantPath)) {
		t.Error("sidecar should be written next to the transcript")
	}
}

func TestTranscribeCachedSkipsPipeline(t *testing.T) {
	runner := &countingPipelineRunner{output: "fresh text"}
	app, config := newTestApp(t, runner)

	// Pre-existing transcript, no sidecar: presence alone skips the work
	cached := filepath.Join(config.TranscriptsDir, "foo.txt")
	if err := os.WriteFile(cached, []byte("old transcript"), 0644); err != nil {
		t.Fatal(err)
	}

	mediaFile := filepath.Join(t.TempDir(), "foo.mp4")
	if err := os.WriteFile(mediaFile, []byte("fake media"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := app.Transcribe(context.Background(), mediaFile, false)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if runner.calls != 0 {
		t.Errorf("pipeline invoked %d times for cached input, want 0", runner.calls)
	}
	if !result.Cached {
		t.Error("result should be marked cached")
	}
	if result.Text != "old transcript" {
		t.Errorf("text = %q, want cached content", result.Text)
	}
}

func TestTranscribeStaleCacheReruns(t *testing.T) {
	runner := &countingPipelineRunner{output: "new transcript"}
	app, config := newTestApp(t, runner)

	cached := filepath.Join(config.TranscriptsDir, "foo.txt")
	if err := os.WriteFile(cached, []byte("old transcript"), 0644); err != nil {
		t.Fatal(err)
	}
	// Sidecar from a run with different settings
	if err := WriteSidecar(cached, "different-fingerprint", "foo.mp4"); err != nil {
		t.Fatal(err)
	}

	mediaFile := filepath.Join(t.TempDir(), "foo.mp4")
	if err := os.WriteFile(mediaFile, []byte("fake media"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := app.Transcribe(context.Background(), mediaFile, false)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if runner.calls != 1 {
		t.Errorf("pipeline invoked %d times for stale cache, want 1", runner.calls)
	}
	if result.Text != "new transcript" {
		t.Errorf("text = %q, want fresh output", result.Text)
	}

	if CheckCache(cached, ConfigFingerprint(config)) != CacheHit {
		t.Error("rerun should refresh the sidecar")
	}
}

func TestTranscribeFailureRemovesPartialOutput(t *testing.T) {
	runner := &countingPipelineRunner{output: "partial", err: os.ErrDeadlineExceeded}
	app, config := newTestApp(t, runner)

	mediaFile := filepath.Join(t.TempDir(), "foo.mp4")
	if err := os.WriteFile(mediaFile, []byte("fake media"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := app.Transcribe(context.Background(), mediaFile, false); err == nil {
		t.Fatal("Transcribe should propagate pipeline failure")
	}

	if FileExists(filepath.Join(config.TranscriptsDir, "foo.txt")) {
		t.Error("partial transcript should be removed after a failed run")
	}
}

func TestTranscribeMissingModel(t *testing.T) {
	runner := &countingPipelineRunner{output: "text"}
	app, config := newTestApp(t, runner)
	config.ModelPath = filepath.Join(config.TranscriptsDir, "missing.bin")

	mediaFile := filepath.Join(t.TempDir(), "foo.mp4")
	if err := os.WriteFile(mediaFile, []byte("fake media"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := app.Transcribe(context.Background(), mediaFile, false); err == nil {
		t.Fatal("Transcribe should fail when the model file is missing")
	}
	if runner.calls != 0 {
		t.Errorf("pipeline should not run without a model, got %d calls", runner.calls)
	}
}

// fakeOpenAIClient records transcription uploads
type fakeOpenAIClient struct {
	text  string
	calls int
}

func (f *fakeOpenAIClient) CreateTranscription(ctx context.Context, file *os.File) (string, error) {
	f.calls++
	return f.text, nil
}

func TestTranscribeOpenAIEngine(t *testing.T) {
	runner := &countingPipelineRunner{output: "RIFFfakewav"}
	client := &fakeOpenAIClient{text: "api transcript"}

	dir := t.TempDir()
	config := testConfig(dir)
	config.Engine = EngineOpenAI
	config.TempDir = filepath.Join(dir, "tmp")

	app := NewApp(config, WithPipelineRunner(runner.run), WithOpenAIClient(client))

	mediaFile := filepath.Join(t.TempDir(), "talk.mp3")
	if err := os.WriteFile(mediaFile, []byte("fake media"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := app.Transcribe(context.Background(), mediaFile, false)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if runner.calls != 1 {
		t.Errorf("transcode pipeline invoked %d times, want 1", runner.calls)
	}
	if client.calls != 1 {
		t.Errorf("API invoked %d times, want 1", client.calls)
	}
	if result.Text != "api transcript" {
		t.Errorf("text = %q, want API result", result.Text)
	}

	data, err := os.ReadFile(filepath.Join(dir, "talk.txt"))
	if err != nil {
		t.Fatalf("transcript file missing: %v", err)
	}
	if string(data) != "api transcript" {
		t.Errorf("file content = %q, want API result", string(data))
	}
}
