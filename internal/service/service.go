// Package service wires discovery, parsing, filtering, conversion and
// bookkeeping into one run.
package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/v-zq/media-to-GIF/internal/config"
	"github.com/v-zq/media-to-GIF/internal/filter"
	"github.com/v-zq/media-to-GIF/internal/history"
	"github.com/v-zq/media-to-GIF/internal/jobs"
	"github.com/v-zq/media-to-GIF/internal/library"
	"github.com/v-zq/media-to-GIF/internal/media"
	"github.com/v-zq/media-to-GIF/internal/metadata"
	"github.com/v-zq/media-to-GIF/internal/subtitle"
	"github.com/v-zq/media-to-GIF/pkg/log"
)

// preparePairConcurrency bounds how many subtitle files are parsed at once
// while jobs are being built. Parsing is cheap next to transcoding, so this
// is deliberately small.
const preparePairConcurrency = 4

// Service runs the whole pipeline for one configuration.
type Service struct {
	cfg      config.Config
	filter   *filter.Filter
	exec     jobs.Executor
	store    *history.Store
	progress io.Writer
}

// Option configures a Service, mainly for tests.
type Option func(*Service)

// WithExecutor replaces the ffmpeg invoker.
func WithExecutor(exec jobs.Executor) Option {
	return func(s *Service) {
		s.exec = exec
	}
}

// WithProgressWriter redirects the progress bar.
func WithProgressWriter(w io.Writer) Option {
	return func(s *Service) {
		s.progress = w
	}
}

func New(cfg config.Config, opts ...Option) (*Service, error) {
	s := &Service{
		cfg:      cfg,
		filter:   filter.New(cfg.SkipEnabled),
		progress: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.exec == nil {
		if err := media.CheckInstalled(); err != nil {
			return nil, WrapError(err, ErrConfig, "transcoder unavailable")
		}
		s.exec = media.NewFFmpeg(media.Options{
			FPS:      cfg.Render.FPS,
			Width:    cfg.Render.Width,
			FontSize: cfg.Render.FontSize,
			Outline:  cfg.Render.Outline,
		}).Clip
	}

	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return nil, WrapError(err, ErrConfig, "open history ledger")
	}
	s.store = store
	return s, nil
}

func (s *Service) Close() error {
	return s.store.Close()
}

// pairPlan is one pair's prepared work: its jobs plus the metadata entries
// they will complete. entrySlot maps a job index to its entry position.
type pairPlan struct {
	pair      library.MediaPair
	language  string
	entries   []metadata.Entry
	entrySlot map[int]int
	jobs      []jobs.ConversionJob
	skipped   int
}

// Run executes one full pipeline pass: discover pairs, parse and filter
// captions, convert every retained caption, and record metadata per pair.
func (s *Service) Run(ctx context.Context) (*Summary, error) {
	pairs, warnings, err := library.NewResolver(s.cfg.InputDir, s.cfg.Mode).Resolve()
	if err != nil {
		return nil, WrapError(err, ErrConfig, "resolve input pairs")
	}
	for _, w := range warnings {
		log.Warn("Discovery: %s", w)
	}
	if len(pairs) == 0 {
		log.Warn("No matching video and subtitle files found under %s", s.cfg.InputDir)
	}

	summary := &Summary{
		PairsDiscovered: len(pairs),
		Warnings:        len(warnings),
	}

	plans := s.preparePairs(ctx, pairs, summary)

	batches := make([]jobs.Batch, 0, len(plans))
	planByKey := make(map[string]*pairPlan, len(plans))
	total := 0
	for _, plan := range plans {
		planByKey[plan.pair.Key] = plan
		batches = append(batches, jobs.Batch{PairKey: plan.pair.Key, Jobs: plan.jobs})
		total += len(plan.jobs)
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(s.progress),
		progressbar.OptionSetDescription("converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var mu sync.Mutex
	pool := jobs.NewPool(s.cfg.MaxWorkers)
	pool.Run(ctx, batches, s.exec, jobs.Hooks{
		OnJobDone: func(result jobs.JobResult) {
			_ = bar.Add(1)
			if err := s.store.Record(ctx, result); err != nil {
				log.Error("History: %v", err)
			}
		},
		OnPairDone: func(pairKey string, results []jobs.JobResult) {
			mu.Lock()
			defer mu.Unlock()
			s.finishPair(planByKey[pairKey], results, summary)
		},
	})
	_ = bar.Finish()

	summary.Halted = pool.Halted()
	if summary.Halted {
		log.Error("Run halted early: resource exhaustion while converting")
	}

	fmt.Fprintln(s.progress, summary.Render())
	return summary, nil
}

// preparePairs parses, filters and builds jobs for every pair. A pair whose
// subtitle file fails to parse is dropped with an error; other pairs are
// unaffected.
func (s *Service) preparePairs(ctx context.Context, pairs []library.MediaPair, summary *Summary) []*pairPlan {
	var mu sync.Mutex
	plans := make([]*pairPlan, 0, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(preparePairConcurrency)
	for _, pair := range pairs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			plan, err := s.preparePair(pair)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error("%v", err)
				summary.PairsFailed++
				return nil
			}
			summary.EntriesSkipped += plan.skipped
			plans = append(plans, plan)
			return nil
		})
	}
	_ = g.Wait()
	return plans
}

func (s *Service) preparePair(pair library.MediaPair) (*pairPlan, error) {
	reader, err := subtitle.NewReader(pair.SubtitlePath)
	if err != nil {
		return nil, WrapError(err, ErrParse, "unreadable subtitle").WithContext("pair", pair.Key)
	}
	parsed, err := reader.Read()
	if err != nil {
		return nil, WrapError(err, ErrParse, "subtitle rejected").WithContext("pair", pair.Key)
	}

	plan := &pairPlan{
		pair:      pair,
		language:  parsed.Language,
		entrySlot: make(map[int]int),
	}

	var retained []subtitle.Line
	skipped := make(map[int]bool)
	for _, line := range parsed.Lines {
		if s.filter.Skip(line.Text) {
			skipped[line.Index] = true
			continue
		}
		retained = append(retained, line)
	}
	plan.jobs = jobs.BuildJobs(pair, retained, s.cfg.OutputDir, s.cfg.ClipFormat)
	plan.skipped = len(skipped)

	// entries stay in caption order; retained ones are completed by their
	// job result later
	jobCursor := 0
	for _, line := range parsed.Lines {
		if skipped[line.Index] {
			if s.cfg.MetadataIncludeSkipped {
				plan.entries = append(plan.entries, metadata.Entry{
					Index:       line.Index,
					CaptionText: line.Text,
					TimeRange:   timeRange(line),
					Status:      string(jobs.StatusSkipped),
				})
			}
			continue
		}
		job := plan.jobs[jobCursor]
		jobCursor++
		plan.entries = append(plan.entries, metadata.Entry{
			Index:       line.Index,
			CaptionText: line.Text,
			TimeRange:   timeRange(line),
		})
		plan.entrySlot[job.Index] = len(plan.entries) - 1
	}

	log.Info("Pair %s: %d caption(s), %d retained", pair.Key, len(parsed.Lines), len(plan.jobs))
	return plan, nil
}

// finishPair fills the plan's entries from the collected results and writes
// the pair's metadata record. Runs under the caller's lock.
func (s *Service) finishPair(plan *pairPlan, results []jobs.JobResult, summary *Summary) {
	if plan == nil {
		return
	}

	for _, result := range results {
		slot, ok := plan.entrySlot[result.Job.Index]
		if !ok {
			continue
		}
		entry := &plan.entries[slot]
		entry.Status = string(result.Status)
		entry.Error = result.Error
		entry.DurationMS = result.DurationMS
		if result.Status == jobs.StatusSuccess {
			entry.OutputFilename = filepath.Base(result.Job.OutputPath)
		}

		switch result.Status {
		case jobs.StatusSuccess:
			summary.EntriesGenerated++
		case jobs.StatusAbandoned:
			summary.EntriesAbandoned++
		default:
			summary.EntriesFailed++
			log.Error("Pair %s entry %d failed: %s", plan.pair.Key, result.Job.Index, result.Error)
		}
	}

	record := metadata.Record{
		PairKey:   plan.pair.Key,
		VideoPath: plan.pair.VideoPath,
		Language:  plan.language,
		Entries:   plan.entries,
	}
	record.GeneratedAt = time.Now().UTC()
	if err := metadata.Write(filepath.Join(s.cfg.OutputDir, plan.pair.Key), record); err != nil {
		log.Error("Pair %s: write metadata: %v", plan.pair.Key, err)
		summary.PairsFailed++
		return
	}
	summary.PairsProcessed++
}

func timeRange(line subtitle.Line) string {
	return media.FormatTimestamp(line.StartTime) + " - " + media.FormatTimestamp(line.EndTime)
}
