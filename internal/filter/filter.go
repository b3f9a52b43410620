// Package filter decides which caption entries are excluded from clip
// generation. The default heuristics target mid-sentence continuation lines
// that make poor standalone clips.
package filter

import (
	"regexp"
	"strings"
)

var defaultPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\.\.\.|…)`), // starts with an ellipsis
	regexp.MustCompile(`,$`),          // ends with a comma
	regexp.MustCompile(`:$`),          // ends with a colon
	regexp.MustCompile(`[a-z]$`),      // ends with a lowercase letter
}

// Filter is a pure predicate over caption text. It holds no per-call state,
// so the same text always yields the same answer.
type Filter struct {
	enabled  bool
	patterns []*regexp.Regexp
}

// New creates a Filter with the default skip heuristics. A disabled filter
// never skips.
func New(enabled bool) *Filter {
	return &Filter{
		enabled:  enabled,
		patterns: defaultPatterns,
	}
}

// Skip reports whether the caption text should be excluded from output.
func (f *Filter) Skip(text string) bool {
	if !f.enabled {
		return false
	}
	text = strings.TrimSpace(text)
	for _, pattern := range f.patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
