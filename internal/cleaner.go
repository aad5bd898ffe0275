package internal

import (
	"regexp"
	"strings"
)

// annotationPattern matches bracketed timestamp/speaker annotations and
// parenthesized sound descriptions emitted by the transcriber
var annotationPattern = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Cleaner post-processes raw transcripts. The filler list is configuration,
// not hard-coded behavior, since filler heuristics are locale-specific.
type Cleaner struct {
	fillers []*regexp.Regexp
}

// NewCleaner builds a cleaner removing the given filler tokens
func NewCleaner(fillerWords []string) *Cleaner {
	fillers := make([]*regexp.Regexp, 0, len(fillerWords))
	for _, word := range fillerWords {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		fillers = append(fillers, fillerPattern(word))
	}
	return &Cleaner{fillers: fillers}
}

// fillerPattern compiles a case-insensitive match for a filler token with
// optional trailing punctuation. Word boundaries only apply when the token
// starts and ends with word characters.
func fillerPattern(word string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(word)
	pattern := `(?i)` + quoted
	if regexp.MustCompile(`^\w`).MatchString(word) {
		pattern = `(?i)\b` + quoted
	}
	if regexp.MustCompile(`\w$`).MatchString(word) {
		pattern += `\b[,.!?]*`
	}
	return regexp.MustCompile(pattern)
}

// Clean strips annotations and filler tokens, normalizes whitespace, and
// collapses consecutive duplicate lines. Applying Clean to its own output
// yields the same output.
func (c *Cleaner) Clean(text string) string {
	var lines []string
	for line := range strings.SplitSeq(text, "\n") {
		line = annotationPattern.ReplaceAllString(line, "")
		for _, filler := range c.fillers {
			line = filler.ReplaceAllString(line, "")
		}
		line = strings.TrimSpace(whitespacePattern.ReplaceAllString(line, " "))
		if line == "" {
			continue
		}
		if len(lines) > 0 && lines[len(lines)-1] == line {
			continue
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
