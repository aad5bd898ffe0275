package internal

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/lrstanley/go-ytdlp"
	"github.com/spf13/viper"
)

// Engine selects the transcription backend.
const (
	EngineLocal  = "local"
	EngineOpenAI = "openai"
)

// Config holds application settings
type Config struct {
	// User configurable settings
	WhisperExecutable string
	ModelPath         string
	Language          string
	Threads           int
	BeamSize          int
	RemoveSilence     bool
	Engine            string
	OpenAIAPIKey      string
	TranscriptsDir    string
	NotesFolder       string
	FillerWords       []string
	Verbose           bool
	Quiet             bool

	// Fixed XDG paths (not configurable)
	ConfigDir string
	DataDir   string
	CacheDir  string
	TempDir   string
}

//go:embed config.toml
var defaultFS embed.FS

// EnsureDefaultConfig checks if a config file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultConfig(configDir string) error {
	filePath := filepath.Join(configDir, "config.toml")
	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile("config.toml")
	if err != nil {
		return fmt.Errorf("reading embedded default configuration: %w", err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default configuration: %w", err)
	}

	// Stderr, not stdout: this can fire on a first run of the mcp command,
	// whose stdout is a JSON-RPC channel
	fmt.Fprintf(os.Stderr, "Created default configuration at %s\n", filePath)
	return nil
}

// InitConfig initializes Viper and loads configuration
func InitConfig() *Config {
	// Ensure yt-dlp is installed
	ytdlp.MustInstall(context.Background(), nil)

	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, "ytscribe")
	dataDir := filepath.Join(xdg.DataHome, "ytscribe")
	cacheDir := filepath.Join(xdg.CacheHome, "ytscribe")
	tempDir := filepath.Join(cacheDir, "temp_audio")

	// Initialize viper
	v := viper.New()

	// Set default values for configurable settings
	v.SetDefault("whisper_executable", "whisper-cli")
	v.SetDefault("model", filepath.Join(dataDir, "models", "ggml-base.en.bin"))
	v.SetDefault("language", "en")
	v.SetDefault("threads", 4)
	v.SetDefault("beam_size", 5)
	v.SetDefault("remove_silence", false)
	v.SetDefault("engine", EngineLocal)
	v.SetDefault("transcripts_dir", ".")
	v.SetDefault("notes_folder", "Transcripts")
	v.SetDefault("filler_words", []string{"um", "uh", "you know", "[BLANK_AUDIO]"})
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("YTSCRIBE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("_", "_"))

	// The env variables understood by the original toolchain keep working
	_ = v.BindEnv("whisper_executable", "WHISPER_EXECUTABLE")
	_ = v.BindEnv("model", "WHISPER_MODEL")
	_ = v.BindEnv("language", "WHISPER_LANG")
	_ = v.BindEnv("threads", "WHISPER_THREADS")
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	// Create config struct from viper
	config := &Config{
		WhisperExecutable: v.GetString("whisper_executable"),
		ModelPath:         v.GetString("model"),
		Language:          v.GetString("language"),
		Threads:           v.GetInt("threads"),
		BeamSize:          v.GetInt("beam_size"),
		RemoveSilence:     v.GetBool("remove_silence"),
		Engine:            v.GetString("engine"),
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		TranscriptsDir:    v.GetString("transcripts_dir"),
		NotesFolder:       v.GetString("notes_folder"),
		FillerWords:       v.GetStringSlice("filler_words"),
		Verbose:           v.GetBool("verbose"),
		Quiet:             v.GetBool("quiet"),

		// Fixed XDG paths
		ConfigDir: configDir,
		DataDir:   dataDir,
		CacheDir:  cacheDir,
		TempDir:   tempDir,
	}

	if config.Verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}

// Validate checks the configuration for settings that can never work
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineLocal, EngineOpenAI:
	default:
		return fmt.Errorf("unsupported engine: %s (supported: %s, %s)", c.Engine, EngineLocal, EngineOpenAI)
	}

	if c.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", c.Threads)
	}

	if c.BeamSize < 1 {
		return fmt.Errorf("beam size must be at least 1, got %d", c.BeamSize)
	}

	if c.Language == "" {
		return fmt.Errorf("language must not be empty (use \"auto\" for detection)")
	}

	if c.Engine == EngineOpenAI && c.OpenAIAPIKey == "" {
		return fmt.Errorf("OpenAI API key is required for the openai engine - set it in config.toml or OPENAI_API_KEY environment variable")
	}

	return nil
}

// Translate reports whether whisper should be asked to translate. Note the
// direction: -tr always translates INTO English, so a non-English language
// setting yields English output. English-only models can't translate;
// they follow the ggml naming convention (ggml-base.en.bin,
// ggml-base.en-q5_1.bin), so only a ".en" name segment counts, not any
// substring (ggml.encoder.bin is multilingual as far as the name says).
func (c *Config) Translate() bool {
	if c.Language == "en" || c.Language == "auto" {
		return false
	}
	name := strings.TrimSuffix(filepath.Base(c.ModelPath), ".bin")
	englishOnly := strings.HasSuffix(name, ".en") || strings.Contains(name, ".en-")
	return !englishOnly
}
