package subtitle

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// assReader parses Advanced SubStation Alpha (and SSA) files: one styled
// "Dialogue:" line per caption inside the [Events] section. Field order is
// taken from the section's "Format:" header.
type assReader struct {
	path string
}

var assTimePattern = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})\.(\d{2})$`)

func (r *assReader) Read() (*File, error) {
	raw, err := readFileLines(r.path)
	if err != nil {
		return nil, err
	}

	var lines []Line
	inEvents := false
	startIdx, endIdx, textIdx := -1, -1, -1
	fieldCount := 0

	for n, line := range raw {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") {
			inEvents = strings.EqualFold(trimmed, "[Events]")
			continue
		}
		if !inEvents {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "Format:"):
			fields := strings.Split(strings.TrimPrefix(trimmed, "Format:"), ",")
			fieldCount = len(fields)
			for i, f := range fields {
				switch strings.TrimSpace(f) {
				case "Start":
					startIdx = i
				case "End":
					endIdx = i
				case "Text":
					textIdx = i
				}
			}
			if startIdx < 0 || endIdx < 0 || textIdx != fieldCount-1 {
				return nil, &ParseError{Path: r.path, Line: n + 1, Msg: "events format must declare Start, End and a trailing Text field"}
			}

		case strings.HasPrefix(trimmed, "Dialogue:"):
			if fieldCount == 0 {
				return nil, &ParseError{Path: r.path, Line: n + 1, Msg: "dialogue line before events format header"}
			}
			// Text is the last field and may itself contain commas.
			fields := strings.SplitN(strings.TrimPrefix(trimmed, "Dialogue:"), ",", fieldCount)
			if len(fields) != fieldCount {
				return nil, &ParseError{Path: r.path, Line: n + 1, Msg: "dialogue line has too few fields"}
			}

			start, ok := parseASSTime(strings.TrimSpace(fields[startIdx]))
			if !ok {
				return nil, &ParseError{Path: r.path, Line: n + 1, Msg: "malformed start time " + strconv.Quote(fields[startIdx])}
			}
			end, ok := parseASSTime(strings.TrimSpace(fields[endIdx]))
			if !ok {
				return nil, &ParseError{Path: r.path, Line: n + 1, Msg: "malformed end time " + strconv.Quote(fields[endIdx])}
			}

			text := joinCaption(splitASSText(fields[textIdx]))
			if text == "" {
				continue
			}
			lines = append(lines, Line{
				Index:     len(lines) + 1,
				StartTime: start,
				EndTime:   end,
				Text:      text,
			})
		}
	}

	return finishFile(r.path, FormatASS, lines)
}

// parseASSTime parses "H:MM:SS.cc" (centisecond precision).
func parseASSTime(s string) (time.Duration, bool) {
	matches := assTimePattern.FindStringSubmatch(s)
	if len(matches) != 5 {
		return 0, false
	}
	field := func(i int) time.Duration {
		n, _ := strconv.Atoi(matches[i])
		return time.Duration(n)
	}
	return field(1)*time.Hour +
		field(2)*time.Minute +
		field(3)*time.Second +
		field(4)*10*time.Millisecond, true
}

// splitASSText breaks dialogue text on \N and \n soft line breaks.
func splitASSText(s string) []string {
	s = strings.ReplaceAll(s, `\N`, "\n")
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\h`, " ")
	return strings.Split(s, "\n")
}
