package subtitle

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// microDVDReader parses MicroDVD .sub files: one "{start}{end}text" line per
// caption, with frame-based timing. An optional "{1}{1}<fps>" header line
// declares the frame rate; otherwise defaultMicroDVDFPS is assumed.
type microDVDReader struct {
	path string
}

const defaultMicroDVDFPS = 23.976

var microDVDPattern = regexp.MustCompile(`^\{(\d+)\}\{(\d+)\}(.*)$`)

func (r *microDVDReader) Read() (*File, error) {
	raw, err := readFileLines(r.path)
	if err != nil {
		return nil, err
	}

	fps := defaultMicroDVDFPS
	var lines []Line

	for n, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		matches := microDVDPattern.FindStringSubmatch(line)
		if matches == nil {
			return nil, &ParseError{Path: r.path, Line: n + 1, Msg: "malformed frame marker " + strconv.Quote(line)}
		}

		startFrame, _ := strconv.Atoi(matches[1])
		endFrame, _ := strconv.Atoi(matches[2])
		body := matches[3]

		// {1}{1}25.0 as the first caption declares the frame rate.
		if len(lines) == 0 && startFrame == 1 && endFrame == 1 {
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(body), 64); err == nil && parsed > 0 {
				fps = parsed
				continue
			}
		}

		text := joinCaption(strings.Split(body, "|"))
		if text == "" {
			continue
		}
		lines = append(lines, Line{
			Index:     len(lines) + 1,
			StartTime: framesToDuration(startFrame, fps),
			EndTime:   framesToDuration(endFrame, fps),
			Text:      text,
		})
	}

	return finishFile(r.path, FormatMicroDVD, lines)
}

func framesToDuration(frame int, fps float64) time.Duration {
	return time.Duration(float64(frame) / fps * float64(time.Second))
}
