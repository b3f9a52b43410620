package subtitle

import (
	"fmt"
	"os"
	"strings"
)

// NewReader creates a subtitle file reader for the dialect declared by the
// file extension (.srt, .ass, .sub).
func NewReader(path string) (Reader, error) {
	ext := strings.ToLower(path)
	switch {
	case strings.HasSuffix(ext, ".srt"):
		return &srtReader{path: path}, nil
	case strings.HasSuffix(ext, ".ass"), strings.HasSuffix(ext, ".ssa"):
		return &assReader{path: path}, nil
	case strings.HasSuffix(ext, ".sub"):
		return &microDVDReader{path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported subtitle format: %s", path)
	}
}

func readFileLines(path string) ([]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("subtitle file does not exist: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n"), nil
}

// joinCaption collapses a multi-line caption into a single displayable line:
// markup is stripped first, then breaks become single spaces.
func joinCaption(parts []string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(StripTags(p))
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, " ")
}

func finishFile(path string, format Format, lines []Line) (*File, error) {
	for i, line := range lines {
		if line.StartTime >= line.EndTime {
			return nil, &ParseError{
				Path: path,
				Msg:  fmt.Sprintf("entry %d: start time %v is not before end time %v", i+1, line.StartTime, line.EndTime),
			}
		}
	}
	return &File{
		Lines:    lines,
		Language: detectLanguage(lines),
		Format:   format,
	}, nil
}
