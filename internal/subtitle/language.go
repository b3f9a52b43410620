package subtitle

import (
	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// detectLanguage returns the dominant ISO 639-1 code across the captions,
// or "" when nothing could be determined.
func detectLanguage(lines []Line) string {
	if len(lines) == 0 {
		return ""
	}

	counts := make(map[string]int)
	for _, line := range lines {
		code := whatlanggo.DetectLang(line.Text).Iso6391()
		if code == "" {
			continue
		}
		counts[code]++
	}

	var topLang string
	var topCount int
	for code, count := range counts {
		if count > topCount {
			topLang = code
			topCount = count
		}
	}
	if topLang == "" {
		return ""
	}

	// Normalize through x/text so aliases collapse to one base code.
	tag, err := language.Parse(topLang)
	if err != nil {
		return topLang
	}
	base, conf := tag.Base()
	if conf == language.No {
		return topLang
	}
	return base.String()
}
