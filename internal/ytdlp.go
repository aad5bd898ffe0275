package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// VideoMetadata contains video information queried from yt-dlp
type VideoMetadata struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Channel    string  `json:"channel"`
	Uploader   string  `json:"uploader"`
	UploadDate string  `json:"upload_date"`
	Duration   float64 `json:"duration"`
}

// UploadedAt parses the yt-dlp upload date (YYYYMMDD)
func (m *VideoMetadata) UploadedAt() (time.Time, error) {
	return time.Parse("20060102", m.UploadDate)
}

// YouTube handles remote video operations
type YouTube struct {
	cacheDir string
	verbose  bool
}

// NewYouTube creates a new YouTube downloader
func NewYouTube(cacheDir string, verbose bool) *YouTube {
	return &YouTube{cacheDir: cacheDir, verbose: verbose}
}

// StreamStage emits the best available audio format of a remote video on
// stdout. Raw yt-dlp is used here instead of the go-ytdlp wrapper because
// the wrapper buffers stdout as a string, which defeats the streaming pipe.
func StreamStage(videoURL string) Stage {
	return Stage{
		Name: "yt-dlp",
		Path: "yt-dlp",
		Args: []string{
			"-q",
			"-f", "bestaudio",
			"-o", "-",
			videoURL,
		},
	}
}

// Metadata fetches video details using go-ytdlp
func (yt *YouTube) Metadata(ctx context.Context, videoURL string) (*VideoMetadata, error) {
	if yt.verbose {
		fmt.Println("Extracting video metadata...")
	}

	dl := ytdlp.New().
		DumpSingleJSON().
		NoPlaylist().
		SkipDownload()

	result, err := dl.Run(ctx, videoURL)
	if err != nil {
		if yt.verbose && result != nil {
			fmt.Printf("Metadata extraction error: %v\n", err)
			fmt.Printf("Stderr: %s\n", result.Stderr)
		}
		return nil, fmt.Errorf("extracting video metadata: %w", err)
	}

	var metadata VideoMetadata
	if err := json.Unmarshal([]byte(result.Stdout), &metadata); err != nil {
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}

	if yt.verbose {
		fmt.Printf("Title: %s\n", metadata.Title)
		fmt.Printf("Channel: %s\n", metadata.Channel)
		fmt.Printf("Duration: %.2f seconds\n", metadata.Duration)
	}

	return &metadata, nil
}

// CachedMetadata wraps VideoMetadata with cache information
type CachedMetadata struct {
	VideoMetadata
	CachedAt time.Time `json:"cached_at"`
}

func (yt *YouTube) metadataPath(videoID string) string {
	return filepath.Join(yt.cacheDir, videoID+".meta.json")
}

// SaveMetadata caches video metadata as JSON
func (yt *YouTube) SaveMetadata(videoID string, metadata *VideoMetadata) error {
	if err := EnsureDirs(yt.cacheDir); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	cached := CachedMetadata{VideoMetadata: *metadata, CachedAt: time.Now()}
	data, err := json.MarshalIndent(cached, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}

	if err := os.WriteFile(yt.metadataPath(videoID), data, 0644); err != nil {
		return fmt.Errorf("saving metadata: %w", err)
	}

	return nil
}

// LoadCachedMetadata loads video metadata from cache
func (yt *YouTube) LoadCachedMetadata(videoID string) (*VideoMetadata, error) {
	path := yt.metadataPath(videoID)
	if !FileExists(path) {
		return nil, fmt.Errorf("metadata cache not found")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata cache: %w", err)
	}

	var cached CachedMetadata
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("parsing metadata cache: %w", err)
	}

	return &cached.VideoMetadata, nil
}
