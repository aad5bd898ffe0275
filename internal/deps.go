package internal

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool describes a required external executable
type Tool struct {
	Name        string
	Purpose     string
	InstallHint string
}

// lookPath resolves executables on the search path, replaceable in tests
var lookPath = exec.LookPath

// RequiredTools lists the executables a transcription run depends on.
// The openai engine replaces the local whisper binary with an API call.
func RequiredTools(config *Config) []Tool {
	tools := []Tool{
		{
			Name:        "yt-dlp",
			Purpose:     "downloading audio from videos",
			InstallHint: "install it with 'pip install yt-dlp' or 'brew install yt-dlp'",
		},
		{
			Name:        "ffmpeg",
			Purpose:     "transcoding audio to 16 kHz mono PCM",
			InstallHint: "install it with 'brew install ffmpeg' or from https://ffmpeg.org/download.html",
		},
	}

	if config.Engine == EngineLocal {
		tools = append(tools, Tool{
			Name:        config.WhisperExecutable,
			Purpose:     "speech-to-text transcription",
			InstallHint: "build whisper.cpp from https://github.com/ggerganov/whisper.cpp and put the binary on your PATH (or set WHISPER_EXECUTABLE)",
		})
	}

	return tools
}

// CheckTools verifies every tool resolves on the search path. All missing
// tools are reported in a single error so the user can fix them in one go.
func CheckTools(tools []Tool) error {
	var missing []string
	for _, tool := range tools {
		if _, err := lookPath(tool.Name); err != nil {
			missing = append(missing, fmt.Sprintf("%s (needed for %s): %s", tool.Name, tool.Purpose, tool.InstallHint))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required tools:\n  %s", strings.Join(missing, "\n  "))
	}

	return nil
}
