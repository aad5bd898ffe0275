package internal

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// ConfigFingerprint hashes the settings that change transcription output.
// A cached transcript produced under a different fingerprint is stale.
func ConfigFingerprint(config *Config) string {
	h := sha256.New()
	fmt.Fprintf(h, "engine=%s\n", config.Engine)
	fmt.Fprintf(h, "model=%s\n", config.ModelPath)
	fmt.Fprintf(h, "language=%s\n", config.Language)
	fmt.Fprintf(h, "beam_size=%d\n", config.BeamSize)
	fmt.Fprintf(h, "remove_silence=%t\n", config.RemoveSilence)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// TranscriptSidecar records how a transcript was produced
type TranscriptSidecar struct {
	Fingerprint string    `json:"fingerprint"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
}

// SidecarPath derives the sidecar file name from a transcript path
func SidecarPath(transcriptPath string) string {
	return strings.TrimSuffix(transcriptPath, ".txt") + ".meta.json"
}

// CacheState describes the result of a cache lookup
type CacheState int

const (
	CacheMiss CacheState = iota
	CacheHit
	CacheStale
)

// CheckCache reports whether an existing transcript can be reused. A
// transcript without a sidecar is honored as-is, preserving the old
// presence-only behavior; a sidecar with a different fingerprint marks the
// transcript stale.
func CheckCache(transcriptPath, fingerprint string) CacheState {
	if !FileExists(transcriptPath) {
		return CacheMiss
	}

	data, err := os.ReadFile(SidecarPath(transcriptPath))
	if err != nil {
		return CacheHit
	}

	var sidecar TranscriptSidecar
	if err := json.Unmarshal(data, &sidecar); err != nil {
		return CacheHit
	}

	if sidecar.Fingerprint != fingerprint {
		return CacheStale
	}
	return CacheHit
}

// WriteSidecar stores the fingerprint next to a freshly written transcript
func WriteSidecar(transcriptPath, fingerprint, source string) error {
	sidecar := TranscriptSidecar{
		Fingerprint: fingerprint,
		Source:      source,
		CreatedAt:   time.Now(),
	}

	data, err := json.MarshalIndent(sidecar, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling transcript sidecar: %w", err)
	}

	if err := os.WriteFile(SidecarPath(transcriptPath), data, 0644); err != nil {
		return fmt.Errorf("saving transcript sidecar: %w", err)
	}

	return nil
}
