package subtitle

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// srtReader parses SubRip files: numbered blocks of
// "index / start --> end / text lines / blank".
type srtReader struct {
	path string
}

var srtTimePattern = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})[,.](\d{3})`)

func (r *srtReader) Read() (*File, error) {
	raw, err := readFileLines(r.path)
	if err != nil {
		return nil, err
	}

	var lines []Line
	current := Line{}
	state := "index" // possible values: "index", "time", "text"
	var textLines []string

	flush := func() {
		text := joinCaption(textLines)
		if text != "" {
			current.Text = text
			current.Index = len(lines) + 1
			lines = append(lines, current)
		}
		current = Line{}
		textLines = nil
	}

	for n, line := range raw {
		line = strings.TrimSpace(line)

		switch state {
		case "index":
			if line == "" {
				continue
			}
			if _, err := strconv.Atoi(line); err != nil {
				return nil, &ParseError{Path: r.path, Line: n + 1, Msg: "expected block index, got " + strconv.Quote(line)}
			}
			state = "time"

		case "time":
			if line == "" {
				return nil, &ParseError{Path: r.path, Line: n + 1, Msg: "expected timestamp range, got blank line"}
			}
			start, end, ok := parseSRTTime(line)
			if !ok {
				return nil, &ParseError{Path: r.path, Line: n + 1, Msg: "malformed timestamp range " + strconv.Quote(line)}
			}
			current.StartTime = start
			current.EndTime = end
			state = "text"
			textLines = nil

		case "text":
			if line == "" {
				flush()
				state = "index"
			} else {
				textLines = append(textLines, line)
			}
		}
	}

	// last block may not be terminated by a blank line
	if state == "text" {
		flush()
	} else if state == "time" {
		return nil, &ParseError{Path: r.path, Line: len(raw), Msg: "unterminated block: index without timestamp range"}
	}

	return finishFile(r.path, FormatSRT, lines)
}

// parseSRTTime parses "00:02:16,612 --> 00:02:19,376".
func parseSRTTime(s string) (time.Duration, time.Duration, bool) {
	matches := srtTimePattern.FindStringSubmatch(s)
	if len(matches) != 9 {
		return 0, 0, false
	}

	field := func(i int) time.Duration {
		n, _ := strconv.Atoi(matches[i])
		return time.Duration(n)
	}
	clock := func(base int) time.Duration {
		return field(base)*time.Hour +
			field(base+1)*time.Minute +
			field(base+2)*time.Second +
			field(base+3)*time.Millisecond
	}

	return clock(1), clock(5), true
}
