// Package media wraps the external ffmpeg transcoder. Invocations are built
// from typed fields, never from concatenated raw strings, so subtitle content
// cannot change the shape of a command.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/v-zq/media-to-GIF/internal/jobs"
	"github.com/v-zq/media-to-GIF/pkg/log"
)

var commandContext = exec.CommandContext

// Options carries the fixed rendering parameters of a run.
type Options struct {
	FPS      int
	Width    int
	FontSize int
	Outline  int
}

// FFmpeg cuts caption-overlaid GIF clips by invoking the ffmpeg binary once
// per job.
type FFmpeg struct {
	binary string
	opts   Options
}

// Option configures the invoker.
type Option func(*FFmpeg)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(f *FFmpeg) {
		if binary != "" {
			f.binary = binary
		}
	}
}

func NewFFmpeg(opts Options, options ...Option) *FFmpeg {
	f := &FFmpeg{binary: "ffmpeg", opts: opts}
	for _, opt := range options {
		opt(f)
	}
	return f
}

// CheckInstalled verifies ffmpeg is reachable on PATH.
func CheckInstalled() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not on PATH: %w", err)
	}
	return nil
}

// Clip renders one job's caption window to its output path. Per-job problems
// (bad input, nonzero exit, empty output) come back in the JobResult only;
// the error return is reserved for resource exhaustion that should stop the
// whole run.
func (f *FFmpeg) Clip(ctx context.Context, job jobs.ConversionJob) (jobs.JobResult, error) {
	started := time.Now()
	fail := func(msg string) jobs.JobResult {
		return jobs.JobResult{
			Job:        job,
			Status:     jobs.StatusFailed,
			Error:      msg,
			DurationMS: time.Since(started).Milliseconds(),
		}
	}

	if _, err := os.Stat(job.VideoPath); err != nil {
		return fail(fmt.Sprintf("input video: %v", err)), nil
	}

	// Rerun shortcut: a non-empty output from a previous run is kept as is.
	if info, err := os.Stat(job.OutputPath); err == nil && info.Size() > 0 {
		log.Debug("Output %s already exists, skipping invocation", job.OutputPath)
		return jobs.JobResult{
			Job:        job,
			Status:     jobs.StatusSuccess,
			DurationMS: time.Since(started).Milliseconds(),
		}, nil
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0o755); err != nil {
		result := fail(fmt.Sprintf("create output directory: %v", err))
		return result, resourceError(err, "")
	}

	args, err := f.clipArgs(job)
	if err != nil {
		return fail(err.Error()), nil
	}

	var stderr bytes.Buffer
	cmd := commandContext(ctx, f.binary, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = err.Error()
		}
		result := fail(fmt.Sprintf("ffmpeg: %s", diag))
		return result, resourceError(err, diag)
	}

	if info, err := os.Stat(job.OutputPath); err != nil || info.Size() == 0 {
		_ = os.Remove(job.OutputPath)
		return fail("ffmpeg produced no output"), nil
	}

	return jobs.JobResult{
		Job:        job,
		Status:     jobs.StatusSuccess,
		DurationMS: time.Since(started).Milliseconds(),
	}, nil
}

func (f *FFmpeg) clipArgs(job jobs.ConversionJob) ([]string, error) {
	filter, err := f.filterExpr(job.Caption.Text)
	if err != nil {
		return nil, err
	}
	return []string{
		"-v", "error",
		"-y",
		"-ss", FormatTimestamp(job.Caption.StartTime),
		"-i", job.VideoPath,
		"-t", FormatTimestamp(job.Caption.EndTime - job.Caption.StartTime),
		"-vf", filter,
		"-f", "gif",
		job.OutputPath,
	}, nil
}

// filterExpr builds the scale+overlay filter chain. expansion=none keeps
// percent sequences in caption text literal.
func (f *FFmpeg) filterExpr(text string) (string, error) {
	escaped, err := EscapeText(text)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"fps=%d,scale=%d:-1:flags=lanczos,"+
			"drawtext=text=%s"+
			":fontsize=%d:fontcolor=white:borderw=%d:bordercolor=black"+
			":x=(w-text_w)/2:y=h-text_h-20:expansion=none",
		f.opts.FPS, f.opts.Width, escaped, f.opts.FontSize, f.opts.Outline), nil
}

// FormatTimestamp renders a duration as ffmpeg's HH:MM:SS.mmm.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	ms := (d % time.Second) / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// resourceError returns a non-nil error only when err or the process
// diagnostics point at storage exhaustion.
func resourceError(err error, diag string) error {
	if errors.Is(err, syscall.ENOSPC) || strings.Contains(diag, "No space left on device") {
		return fmt.Errorf("storage exhausted: %w", err)
	}
	return nil
}
