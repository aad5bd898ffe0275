package internal

import (
	"context"
	"fmt"
	"html"
	"path/filepath"
	"runtime"
	"strings"
)

// Deliverer hands finished transcripts to a notes sink
type Deliverer interface {
	Deliver(ctx context.Context, title, body string) error
}

// NewDeliverer picks the platform sink: Apple Notes on macOS, a plain
// markdown file everywhere else
func NewDeliverer(config *Config, runner CommandRunner) Deliverer {
	if runtime.GOOS == "darwin" {
		return &AppleNotesDeliverer{runner: runner, folder: config.NotesFolder}
	}
	return &FileDeliverer{dir: filepath.Join(config.DataDir, "notes")}
}

// AppleNotesDeliverer creates notes in Apple Notes via osascript,
// creating the destination folder on first use
type AppleNotesDeliverer struct {
	runner CommandRunner
	folder string
}

func (d *AppleNotesDeliverer) Deliver(ctx context.Context, title, body string) error {
	script := appleNotesScript(d.folder, title, body)
	if output, err := d.runner.Run(ctx, "osascript", "-e", script); err != nil {
		return fmt.Errorf("creating note via osascript: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// appleNotesScript builds the AppleScript creating the note. Notes bodies
// are HTML, so newlines become <div> blocks.
func appleNotesScript(folder, title, body string) string {
	var sb strings.Builder
	sb.WriteString("<h1>" + escapeHTML(title) + "</h1>")
	for line := range strings.SplitSeq(body, "\n") {
		sb.WriteString("<div>" + escapeHTML(line) + "</div>")
	}

	return fmt.Sprintf(`tell application "Notes"
	if not (exists folder %[1]s) then
		make new folder with properties {name:%[1]s}
	end if
	tell folder %[1]s
		make new note with properties {name:%[2]s, body:%[3]s}
	end tell
end tell`,
		escapeAppleScript(folder),
		escapeAppleScript(title),
		escapeAppleScript(sb.String()))
}

// escapeAppleScript quotes a Go string as an AppleScript string literal
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", " ")
	return `"` + s + `"`
}

func escapeHTML(s string) string {
	return html.EscapeString(s)
}

// FileDeliverer writes notes as markdown files
type FileDeliverer struct {
	dir string
}

func (d *FileDeliverer) Deliver(ctx context.Context, title, body string) error {
	if err := EnsureDirs(d.dir); err != nil {
		return fmt.Errorf("creating notes directory: %w", err)
	}

	path := filepath.Join(d.dir, sanitizeFilename(title)+".md")
	note := fmt.Sprintf("# %s\n\n%s\n", title, body)
	if err := writeFile(path, []byte(note)); err != nil {
		return fmt.Errorf("writing note: %w", err)
	}
	return nil
}
