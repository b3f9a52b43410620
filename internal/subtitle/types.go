package subtitle

import (
	"fmt"
	"time"
)

// Format identifies a subtitle dialect.
type Format string

const (
	FormatSRT      Format = "SRT"
	FormatASS      Format = "ASS"
	FormatMicroDVD Format = "MicroDVD"
)

// Reader is the interface for reading subtitle files. Read may be called
// repeatedly; each call re-parses the file from the start.
type Reader interface {
	Read() (*File, error)
}

// Line represents a single timed caption. Text is a single displayable line:
// markup tags are stripped and line breaks are collapsed to spaces.
type Line struct {
	Index     int           // ordinal in file order, starting at 1
	StartTime time.Duration // start time
	EndTime   time.Duration // end time
	Text      string        // caption text
}

// File represents a parsed subtitle file.
type File struct {
	Lines    []Line
	Language string // dominant ISO 639-1 language code, "" if undetermined
	Format   Format
}

// ParseError describes a malformed subtitle file. Parsing is all-or-nothing:
// the first malformed timestamp or block rejects the whole file.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("parse %s: %s", e.Path, e.Msg)
}
