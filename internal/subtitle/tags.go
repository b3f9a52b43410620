package subtitle

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>|\{[^}]*\}`)

// StripTags removes HTML-style markup and brace override tags from caption
// text.
func StripTags(text string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(text, ""))
}
