package internal

// Canonical PCM format expected by whisper: 16 kHz, mono, signed 16-bit.
const (
	sampleRate = "16000"
	channels   = "1"
)

// silenceFilter drops silent passages so whisper doesn't burn time on them
const silenceFilter = "silenceremove=start_periods=1:stop_periods=-1:start_threshold=-50dB:stop_threshold=-50dB:start_silence=0.3:stop_silence=0.3"

// DecodeStage emits raw audio decoded from a local media file
func DecodeStage(mediaFile string) Stage {
	return Stage{
		Name: "ffmpeg-decode",
		Path: "ffmpeg",
		Args: []string{
			"-v", "error",
			"-i", mediaFile,
			"-vn",
			"-f", "wav",
			"pipe:1",
		},
	}
}

// TranscodeStage resamples the incoming audio stream to 16 kHz mono signed
// 16-bit PCM in a WAV container, optionally removing silence first. The
// container header matters: both whisper-cli's stdin reader and the Whisper
// API reject headerless raw PCM.
func TranscodeStage(removeSilence bool) Stage {
	args := []string{
		"-v", "error",
		"-i", "pipe:0",
		"-ar", sampleRate,
		"-ac", channels,
		"-c:a", "pcm_s16le",
	}
	if removeSilence {
		args = append(args, "-af", silenceFilter)
	}
	args = append(args, "-f", "wav", "pipe:1")

	return Stage{
		Name: "ffmpeg-transcode",
		Path: "ffmpeg",
		Args: args,
	}
}
