package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddTranscriptionFlags adds flags controlling the transcription pipeline
func AddTranscriptionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "Path to the whisper ggml model file")
	cmd.Flags().StringP("language", "l", "", "Target language (\"auto\" to detect)")
	cmd.Flags().IntP("threads", "t", 0, "Worker threads for transcription")
	cmd.Flags().Int("beam-size", 0, "Beam size for decoding")
	cmd.Flags().Bool("remove-silence", false, "Drop silent passages before transcribing")
	cmd.Flags().String("engine", "", "Transcription engine (local or openai)")
	cmd.Flags().StringP("output-dir", "o", "", "Directory for transcript files")
}

// ApplyTranscriptionFlags copies explicitly set flags onto the config
func ApplyTranscriptionFlags(cmd *cobra.Command, config *Config) error {
	if cmd.Flags().Changed("model") {
		config.ModelPath, _ = cmd.Flags().GetString("model")
	}
	if cmd.Flags().Changed("language") {
		config.Language, _ = cmd.Flags().GetString("language")
	}
	if cmd.Flags().Changed("threads") {
		config.Threads, _ = cmd.Flags().GetInt("threads")
	}
	if cmd.Flags().Changed("beam-size") {
		config.BeamSize, _ = cmd.Flags().GetInt("beam-size")
	}
	if cmd.Flags().Changed("remove-silence") {
		config.RemoveSilence, _ = cmd.Flags().GetBool("remove-silence")
	}
	if cmd.Flags().Changed("engine") {
		config.Engine, _ = cmd.Flags().GetString("engine")
	}
	if cmd.Flags().Changed("output-dir") {
		config.TranscriptsDir, _ = cmd.Flags().GetString("output-dir")
	}

	return config.Validate()
}

// HandleVerboseFlag processes the persistent --verbose flag
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	config.Verbose = verbose

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	config.Quiet = quiet

	return nil
}
