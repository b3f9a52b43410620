package jobs

import (
	"fmt"
	"path/filepath"

	"github.com/v-zq/media-to-GIF/internal/library"
	"github.com/v-zq/media-to-GIF/internal/subtitle"
)

// BuildJobs produces one ConversionJob per retained caption. Indices are
// assigned densely in filtered order starting at 1, so output names stay
// deterministic regardless of completion order:
// <outputRoot>/<pair key>/<index>.<ext>.
func BuildJobs(pair library.MediaPair, captions []subtitle.Line, outputRoot, ext string) []ConversionJob {
	ret := make([]ConversionJob, 0, len(captions))
	for i, caption := range captions {
		index := i + 1
		ret = append(ret, ConversionJob{
			PairKey:    pair.Key,
			Index:      index,
			Caption:    caption,
			VideoPath:  pair.VideoPath,
			OutputPath: filepath.Join(outputRoot, pair.Key, fmt.Sprintf("%d.%s", index, ext)),
		})
	}
	return ret
}
