package internal

import (
	"fmt"
	"strconv"
)

// TranscribeStage consumes a 16 kHz mono WAV stream on stdin and emits
// recognized text.
// Flags follow the whisper.cpp CLI.
func TranscribeStage(config *Config) Stage {
	args := []string{
		"-m", config.ModelPath,
		"-t", strconv.Itoa(config.Threads),
		"-bs", strconv.Itoa(config.BeamSize),
		"-l", config.Language,
		"-np",
	}
	if config.Translate() {
		args = append(args, "-tr")
	}
	args = append(args, "-f", "-")

	return Stage{
		Name: "whisper",
		Path: config.WhisperExecutable,
		Args: args,
	}
}

// ValidateModel checks that the configured model file is usable
func ValidateModel(modelPath string) error {
	if modelPath == "" {
		return fmt.Errorf("model path must not be empty - set it in config.toml or WHISPER_MODEL environment variable")
	}
	if !FileExists(modelPath) {
		return fmt.Errorf("model file not found: %s (download one with whisper.cpp's models/download-ggml-model.sh)", modelPath)
	}
	return nil
}
