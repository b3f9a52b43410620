// Package metadata persists the per-video record of attempted entries.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const FileName = "metadata.json"

// Entry is one caption accounted for in a pair's record: generated, failed,
// or excluded by the skip filter.
type Entry struct {
	Index          int    `json:"index"`
	CaptionText    string `json:"caption_text"`
	TimeRange      string `json:"time_range"`
	OutputFilename string `json:"output_filename,omitempty"`
	Status         string `json:"status"`
	Error          string `json:"error,omitempty"`
	DurationMS     int64  `json:"duration_ms,omitempty"`
}

// Record summarizes one pair's run.
type Record struct {
	PairKey     string    `json:"pair_key"`
	VideoPath   string    `json:"video_path"`
	Language    string    `json:"language,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Entries     []Entry   `json:"entries"`
}

// Write stores the record as metadata.json in dir, replacing any previous
// record for the same pair. The write goes through a temp file and rename so
// a crash never leaves a truncated record behind.
func Write(dir string, record Record) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create metadata directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".metadata-*.json")
	if err != nil {
		return fmt.Errorf("create metadata temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close metadata temp file: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, FileName)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace metadata file: %w", err)
	}
	return nil
}

// Read loads a previously written record, mainly for tests and tooling.
func Read(dir string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return &record, nil
}
