package internal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// PipelineRunner executes a prepared pipeline, replaceable in tests
type PipelineRunner func(ctx context.Context, pipeline *Pipeline, out io.Writer) error

// App holds the application state and dependencies
type App struct {
	config      *Config
	ui          UIManager
	runner      CommandRunner
	youtube     *YouTube
	cleaner     *Cleaner
	deliverer   Deliverer
	openai      OpenAIClientInterface
	runPipeline PipelineRunner
	clientOnce  sync.Once
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) *App {
	runner := &DefaultCommandRunner{}

	app := &App{
		config:  config,
		ui:      NewUIManager(config.Verbose, config.Quiet),
		runner:  runner,
		youtube: NewYouTube(config.CacheDir, config.Verbose),
		cleaner: NewCleaner(config.FillerWords),
		runPipeline: func(ctx context.Context, pipeline *Pipeline, out io.Writer) error {
			return pipeline.Run(ctx, out)
		},
	}
	app.deliverer = NewDeliverer(config, runner)

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	return app
}

// AppOption customizes App creation
type AppOption func(*App)

// WithCommandRunner sets a custom command runner
func WithCommandRunner(runner CommandRunner) AppOption {
	return func(a *App) {
		a.runner = runner
	}
}

// WithDeliverer sets a custom notes sink
func WithDeliverer(deliverer Deliverer) AppOption {
	return func(a *App) {
		a.deliverer = deliverer
	}
}

// WithPipelineRunner sets a custom pipeline runner
func WithPipelineRunner(run PipelineRunner) AppOption {
	return func(a *App) {
		a.runPipeline = run
	}
}

// WithOpenAIClient sets a custom OpenAI client
func WithOpenAIClient(client OpenAIClientInterface) AppOption {
	return func(a *App) {
		a.openai = client
	}
}

// Config exposes the active configuration
func (app *App) Config() *Config {
	return app.config
}

// UI exposes the terminal UI manager
func (app *App) UI() UIManager {
	return app.ui
}

// CheckRequirements verifies the external tools before any work is done
func (app *App) CheckRequirements() error {
	return CheckTools(RequiredTools(app.config))
}

// TranscriptResult is the outcome of a transcription run
type TranscriptResult struct {
	Input  *Input
	Path   string
	Text   string
	Cached bool
}

// Transcribe resolves the argument, reuses a cached transcript when the
// fingerprint allows it, and otherwise runs the subprocess pipeline. When
// echo is set the transcript is streamed to stdout while it is written.
func (app *App) Transcribe(ctx context.Context, arg string, echo bool) (*TranscriptResult, error) {
	input, err := ResolveInput(arg)
	if err != nil {
		return nil, err
	}
	app.ui.Verbose("Resolved %q as %s\n", arg, input.Kind)

	if err := EnsureDirs(app.config.TranscriptsDir); err != nil {
		return nil, fmt.Errorf("creating transcripts directory: %w", err)
	}

	outPath := filepath.Join(app.config.TranscriptsDir, input.OutputName())
	fingerprint := ConfigFingerprint(app.config)

	switch CheckCache(outPath, fingerprint) {
	case CacheHit:
		app.ui.Verbose("Found existing transcript %s, skipping pipeline\n", outPath)
		text, err := os.ReadFile(outPath)
		if err != nil {
			return nil, fmt.Errorf("reading existing transcript: %w", err)
		}
		if echo {
			fmt.Print(string(text))
		}
		return &TranscriptResult{Input: input, Path: outPath, Text: string(text), Cached: true}, nil
	case CacheStale:
		app.ui.Printf("Existing transcript %s was produced with different settings, redoing\n", outPath)
		cleanupFiles(outPath)
	}

	var text string
	switch app.config.Engine {
	case EngineOpenAI:
		text, err = app.transcribeRemoteAPI(ctx, input)
	default:
		text, err = app.transcribeLocal(ctx, input, outPath, echo)
	}
	if err != nil {
		return nil, err
	}

	if app.config.Engine == EngineOpenAI {
		if err := writeFile(outPath, []byte(text)); err != nil {
			return nil, fmt.Errorf("saving transcript: %w", err)
		}
		if echo {
			fmt.Print(text)
		}
	}

	if err := WriteSidecar(outPath, fingerprint, input.Arg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	return &TranscriptResult{Input: input, Path: outPath, Text: text}, nil
}

// producerStage picks the first pipeline stage for the input
func producerStage(input *Input) Stage {
	if input.Kind == InputLocal {
		return DecodeStage(input.Path)
	}
	return StreamStage(input.URL)
}

// transcribeLocal runs producer | transcoder | whisper with the transcript
// teed into the output file
func (app *App) transcribeLocal(ctx context.Context, input *Input, outPath string, echo bool) (string, error) {
	if err := ValidateModel(app.config.ModelPath); err != nil {
		return "", err
	}

	pipeline := NewPipeline(app.config.Verbose,
		producerStage(input),
		TranscodeStage(app.config.RemoveSilence),
		TranscribeStage(app.config),
	)

	outFile, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("creating transcript file: %w", err)
	}

	var buf bytes.Buffer
	out := io.MultiWriter(outFile, &buf)
	if echo && !app.config.Quiet {
		out = io.MultiWriter(outFile, &buf, os.Stdout)
	}

	runErr := app.runPipeline(ctx, pipeline, out)
	if closeErr := outFile.Close(); closeErr != nil && runErr == nil {
		runErr = fmt.Errorf("closing transcript file: %w", closeErr)
	}
	if runErr != nil {
		cleanupFiles(outPath)
		return "", runErr
	}

	return buf.String(), nil
}

// transcribeRemoteAPI runs producer | transcoder into a temporary WAV file
// and uploads it to the Whisper API
func (app *App) transcribeRemoteAPI(ctx context.Context, input *Input) (string, error) {
	if err := app.ensureOpenAIClient(); err != nil {
		return "", err
	}

	if err := EnsureDirs(app.config.TempDir); err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}

	wavPath := filepath.Join(app.config.TempDir, "upload-"+sanitizeFilename(input.OutputName())+".wav")
	wavFile, err := os.Create(wavPath)
	if err != nil {
		return "", fmt.Errorf("creating temp audio file: %w", err)
	}
	defer cleanupFiles(wavPath)

	pipeline := NewPipeline(app.config.Verbose,
		producerStage(input),
		TranscodeStage(app.config.RemoveSilence),
	)

	runErr := app.runPipeline(ctx, pipeline, wavFile)
	if closeErr := wavFile.Close(); closeErr != nil && runErr == nil {
		runErr = fmt.Errorf("closing temp audio file: %w", closeErr)
	}
	if runErr != nil {
		return "", runErr
	}

	app.ui.Verbose("Uploading %s to the Whisper API\n", wavPath)
	upload, err := os.Open(wavPath)
	if err != nil {
		return "", fmt.Errorf("opening temp audio file: %w", err)
	}
	defer upload.Close()

	text, err := app.openai.CreateTranscription(ctx, upload)
	if err != nil {
		return "", fmt.Errorf("transcribing via Whisper API: %w", err)
	}
	return text, nil
}

// ensureOpenAIClient initializes the OpenAI client if needed
func (app *App) ensureOpenAIClient() error {
	if app.openai != nil {
		return nil
	}

	if app.config.OpenAIAPIKey == "" {
		return fmt.Errorf("OpenAI API key is required - set it in config.toml or OPENAI_API_KEY environment variable")
	}

	app.clientOnce.Do(func() {
		app.openai = NewOpenAIClient(app.config.OpenAIAPIKey)
	})

	return nil
}

// Metadata gets metadata for a remote video (cached or fresh)
func (app *App) Metadata(ctx context.Context, arg string) (*VideoMetadata, error) {
	input, err := ResolveInput(arg)
	if err != nil {
		return nil, err
	}
	if input.Kind != InputRemote {
		return nil, fmt.Errorf("metadata queries only work for remote videos, got %s", input.Kind)
	}

	if cached, err := app.youtube.LoadCachedMetadata(input.VideoID); err == nil {
		app.ui.Verbose("Using cached metadata for %s\n", input.VideoID)
		return cached, nil
	}

	metadata, err := app.youtube.Metadata(ctx, input.URL)
	if err != nil {
		return nil, err
	}

	if err := app.youtube.SaveMetadata(input.VideoID, metadata); err != nil {
		app.ui.Verbose("Warning: Failed to cache metadata: %v\n", err)
	}

	return metadata, nil
}

// Clean runs the transcript cleaner on raw text
func (app *App) Clean(text string) string {
	return app.cleaner.Clean(text)
}

// ComposeNote transcribes, cleans, and builds the note title and body
func (app *App) ComposeNote(ctx context.Context, arg string) (title, body string, err error) {
	spinner := app.ui.NewSpinner("Transcribing...")
	result, err := app.Transcribe(ctx, arg, false)
	spinner.Finish()
	if err != nil {
		return "", "", err
	}

	body = app.cleaner.Clean(result.Text)
	title = app.noteTitle(ctx, result.Input)
	return title, body, nil
}

// DeliverNote composes a note and hands it to the configured sink
func (app *App) DeliverNote(ctx context.Context, arg string) error {
	title, body, err := app.ComposeNote(ctx, arg)
	if err != nil {
		return err
	}

	if err := app.deliverer.Deliver(ctx, title, body); err != nil {
		return err
	}

	app.ui.Printf("Created note %q\n", title)
	return nil
}

// noteTitle builds a title/date heading for the note. Metadata failures
// fall back to the raw reference rather than blocking delivery.
func (app *App) noteTitle(ctx context.Context, input *Input) string {
	if input.Kind == InputLocal {
		base := filepath.Base(input.Path)
		title := base[:len(base)-len(filepath.Ext(base))]
		if info, err := os.Stat(input.Path); err == nil {
			return fmt.Sprintf("%s (%s)", title, info.ModTime().Format("2006-01-02"))
		}
		return title
	}

	metadata, err := app.Metadata(ctx, input.Arg)
	if err != nil {
		app.ui.Verbose("Failed to fetch video metadata: %v\n", err)
		return input.VideoID
	}

	if uploaded, err := metadata.UploadedAt(); err == nil {
		return fmt.Sprintf("%s (%s)", metadata.Title, uploaded.Format("2006-01-02"))
	}
	return metadata.Title
}
