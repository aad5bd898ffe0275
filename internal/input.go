package internal

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// InputKind distinguishes local media files from remote video references
type InputKind int

const (
	InputLocal InputKind = iota
	InputRemote
)

// String returns a human-readable representation of the input kind
func (k InputKind) String() string {
	switch k {
	case InputLocal:
		return "local file"
	case InputRemote:
		return "remote video"
	default:
		return "unknown"
	}
}

// Input is a resolved invocation argument. Exactly one of Path and VideoID
// is meaningful, depending on Kind.
type Input struct {
	Kind    InputKind
	Arg     string
	Path    string // local media file, when Kind == InputLocal
	VideoID string // opaque video identifier, when Kind == InputRemote
	URL     string // normalized watch URL, when Kind == InputRemote
}

// OutputName derives the transcript file name from the input reference
func (in *Input) OutputName() string {
	if in.Kind == InputLocal {
		base := filepath.Base(in.Path)
		return strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
	}
	return "yt" + in.VideoID + ".txt"
}

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// IsValidVideoID checks if a string looks like a valid YouTube video ID
func IsValidVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// ResolveInput classifies an argument as a local file or a remote video
// reference. A path that exists on disk always wins; everything else is
// treated as remote.
func ResolveInput(arg string) (*Input, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, fmt.Errorf("empty input argument")
	}

	if info, err := os.Stat(arg); err == nil {
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory, not a media file", arg)
		}
		return &Input{Kind: InputLocal, Arg: arg, Path: arg}, nil
	}

	id := extractVideoID(arg)
	return &Input{
		Kind:    InputRemote,
		Arg:     arg,
		VideoID: id,
		URL:     normalizeWatchURL(arg, id),
	}, nil
}

// extractVideoID pulls the video identifier out of a URL or bare ID.
// Unparseable references degrade to the raw argument instead of failing,
// which produces a degenerate output filename just like a missing v=
// marker did in the wrapped tooling.
func extractVideoID(arg string) string {
	if IsValidVideoID(arg) {
		return arg
	}

	if u, err := url.Parse(arg); err == nil && u.Host != "" {
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		if u.Host == "youtu.be" {
			if id := strings.Trim(u.Path, "/"); id != "" {
				return id
			}
		}
		// /shorts/ID, /embed/ID, /live/ID
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 {
			switch parts[0] {
			case "shorts", "embed", "live", "v":
				return parts[1]
			}
		}
	}

	// Legacy slicing: everything after the first "v=" up to the next "&"
	if _, after, found := strings.Cut(arg, "v="); found {
		id, _, _ := strings.Cut(after, "&")
		return id
	}

	return arg
}

// normalizeWatchURL returns a URL yt-dlp can fetch for the given reference
func normalizeWatchURL(arg, id string) string {
	if strings.HasPrefix(arg, "https://") || strings.HasPrefix(arg, "http://") {
		return arg
	}
	return "https://www.youtube.com/watch?v=" + id
}
