package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func testConfig(dir string) *Config {
	return &Config{
		WhisperExecutable: "whisper-cli",
		ModelPath:         "models/ggml-base.en.bin",
		Language:          "en",
		Threads:           4,
		BeamSize:          5,
		Engine:            EngineLocal,
		TranscriptsDir:    dir,
		NotesFolder:       "Transcripts",
		FillerWords:       testFillers,
		Quiet:             true,
	}
}

func TestCheckCache(t *testing.T) {
	dir := t.TempDir()
	config := testConfig(dir)
	fingerprint := ConfigFingerprint(config)

	transcript := filepath.Join(dir, "ytdQw4w9WgXcQ.txt")

	if got := CheckCache(transcript, fingerprint); got != CacheMiss {
		t.Errorf("CheckCache on missing file = %v, want miss", got)
	}

	if err := os.WriteFile(transcript, []byte("some text"), 0644); err != nil {
		t.Fatal(err)
	}

	// A transcript without a sidecar is honored (presence-only behavior)
	if got := CheckCache(transcript, fingerprint); got != CacheHit {
		t.Errorf("CheckCache without sidecar = %v, want hit", got)
	}

	if err := WriteSidecar(transcript, fingerprint, "dQw4w9WgXcQ"); err != nil {
		t.Fatal(err)
	}
	if got := CheckCache(transcript, fingerprint); got != CacheHit {
		t.Errorf("CheckCache with matching sidecar = %v, want hit", got)
	}

	// Changing a transcription-relevant setting invalidates the cache
	config.Language = "de"
	if got := CheckCache(transcript, ConfigFingerprint(config)); got != CacheStale {
		t.Errorf("CheckCache with changed language = %v, want stale", got)
	}
}

func TestConfigFingerprint(t *testing.T) {
	base := testConfig("dir")

	same := *base
	if ConfigFingerprint(base) != ConfigFingerprint(&same) {
		t.Error("identical configs should produce identical fingerprints")
	}

	changes := []func(*Config){
		func(c *Config) { c.ModelPath = "models/ggml-large.bin" },
		func(c *Config) { c.Language = "auto" },
		func(c *Config) { c.BeamSize = 1 },
		func(c *Config) { c.RemoveSilence = true },
		func(c *Config) { c.Engine = EngineOpenAI },
	}

	for i, change := range changes {
		changed := *base
		change(&changed)
		if ConfigFingerprint(base) == ConfigFingerprint(&changed) {
			t.Errorf("change %d should alter the fingerprint", i)
		}
	}

	// Settings that don't affect transcription output don't invalidate
	threadsOnly := *base
	threadsOnly.Threads = 16
	if ConfigFingerprint(base) != ConfigFingerprint(&threadsOnly) {
		t.Error("thread count should not alter the fingerprint")
	}
}

func TestSidecarPath(t *testing.T) {
	if got := SidecarPath("out/ytABC.txt"); got != "out/ytABC.meta.json" {
		t.Errorf("SidecarPath = %q, want %q", got, "out/ytABC.meta.json")
	}
}
