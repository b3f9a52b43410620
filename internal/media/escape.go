package media

import (
	"fmt"
	"strings"
)

// Characters that would otherwise alter the structure of a filtergraph
// expression or a drawtext value. Each is backslash-escaped so arbitrary
// caption text cannot inject options or filters.
const escapeSet = `\':,;%[]"=`

// EscapeText prepares caption text for use as a drawtext value. Control
// characters cannot be represented in a filter expression at all, so they are
// rejected rather than smuggled through.
func EscapeText(text string) (string, error) {
	for _, r := range text {
		if r == '\n' || r == '\r' || r < 0x20 {
			return "", fmt.Errorf("caption text contains unescapable control character %q", r)
		}
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(escapeSet, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

// UnescapeText reverses EscapeText; it mirrors how the filtergraph parser
// interprets the escaped value, so escape→unescape round-trips exactly.
func UnescapeText(escaped string) string {
	var b strings.Builder
	b.Grow(len(escaped))
	pending := false
	for _, r := range escaped {
		if pending {
			b.WriteRune(r)
			pending = false
			continue
		}
		if r == '\\' {
			pending = true
			continue
		}
		b.WriteRune(r)
	}
	if pending {
		b.WriteByte('\\')
	}
	return b.String()
}
