package jobs

import (
	"github.com/v-zq/media-to-GIF/internal/subtitle"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	// StatusAbandoned marks jobs never attempted because the run halted on
	// resource exhaustion.
	StatusAbandoned Status = "abandoned"
)

// ConversionJob is one clip to cut: a single caption window of one video.
// Index is the caption's position in the filtered sequence, starting at 1,
// and determines the output filename.
type ConversionJob struct {
	PairKey    string
	Index      int
	Caption    subtitle.Line
	VideoPath  string
	OutputPath string
}

// JobResult records the outcome of one conversion attempt.
type JobResult struct {
	Job        ConversionJob
	Status     Status
	Error      string
	DurationMS int64
}
