package library

// Mode selects how videos are matched with subtitle files.
type Mode string

const (
	// ModeSameName matches flat files in the root directory by filename stem.
	ModeSameName Mode = "same-name"
	// ModeSubfolder matches exactly one video and one subtitle per immediate
	// subdirectory, regardless of filenames.
	ModeSubfolder Mode = "subfolder"
)

func (m Mode) Valid() bool {
	return m == ModeSameName || m == ModeSubfolder
}

// MediaPair is one video matched with one subtitle file for joint processing.
// Key is unique across a resolution: the shared filename stem in same-name
// mode, the subdirectory name in subfolder mode.
type MediaPair struct {
	Key          string
	VideoPath    string
	SubtitlePath string
}
