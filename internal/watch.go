package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// mediaExtensions lists the file types the watcher picks up
var mediaExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".mov":  true,
	".webm": true,
	".avi":  true,
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
}

// IsMediaFile reports whether the path has a recognized media extension
func IsMediaFile(path string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(path))]
}

// Watcher transcribes media files as they appear in a directory
type Watcher struct {
	app *App
	ui  UIManager
}

// NewWatcher creates a directory watcher bound to the app
func NewWatcher(app *App) *Watcher {
	return &Watcher{app: app, ui: app.ui}
}

// Run watches dir until the context is cancelled. Files are processed
// sequentially; the pipeline is heavyweight enough without parallel runs.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	w.ui.Printf("Watching %s for media files...\n", dir)

	pending := make(chan string, 64)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case path := <-pending:
				w.process(ctx, path)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !IsMediaFile(event.Name) {
				continue
			}
			select {
			case pending <- event.Name:
			default:
				fmt.Fprintf(os.Stderr, "Warning: watch queue full, dropping %s\n", event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Warning: watch error: %v\n", err)
		}
	}
}

// process waits for the file to stop growing, then transcribes it
func (w *Watcher) process(ctx context.Context, path string) {
	if err := waitForStableFile(ctx, path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", path, err)
		return
	}

	w.ui.Printf("Transcribing %s\n", path)
	result, err := w.app.Transcribe(ctx, path, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error transcribing %s: %v\n", path, err)
		return
	}

	if result.Cached {
		w.ui.Printf("Transcript already exists: %s\n", result.Path)
		return
	}
	w.ui.Printf("Wrote %s\n", result.Path)
}

// stablePollInterval is shortened in tests
var stablePollInterval = time.Second

// waitForStableFile polls until two consecutive size checks agree, so a
// file still being copied in isn't fed to the pipeline half-written
func waitForStableFile(ctx context.Context, path string) error {
	var lastSize int64 = -1
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(stablePollInterval):
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.Size() == lastSize {
			return nil
		}
		lastSize = info.Size()
	}
}
