package jobs

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/v-zq/media-to-GIF/pkg/log"
)

// Executor runs one job and returns its result. A non-nil error signals a
// resource-level failure (disk full, output root gone): the pool records the
// result as returned but stops starting new jobs. Ordinary per-job failures
// are reported through JobResult.Status alone.
type Executor func(ctx context.Context, job ConversionJob) (JobResult, error)

// Batch groups the jobs of one pair. All of a batch's results are collected
// before its OnPairDone fires; batches never wait on each other.
type Batch struct {
	PairKey string
	Jobs    []ConversionJob
}

// Hooks receive results as the run progresses. OnJobDone fires once per job;
// OnPairDone fires once per batch after its last job, with results sorted by
// index. Both may be called from worker goroutines.
type Hooks struct {
	OnJobDone  func(JobResult)
	OnPairDone func(pairKey string, results []JobResult)
}

// Pool executes conversion jobs across a bounded set of workers. Each job
// occupies one worker for its full duration.
type Pool struct {
	workers int64
	halted  atomic.Bool
}

func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: int64(workers)}
}

// Halted reports whether the pool stopped scheduling new jobs.
func (p *Pool) Halted() bool {
	return p.halted.Load()
}

type batchState struct {
	mu        sync.Mutex
	remaining int
	results   []JobResult
}

// Run executes every job in every batch and blocks until all results are
// collected. Jobs not yet started when the pool halts complete with
// StatusAbandoned so that every batch still reaches its barrier.
func (p *Pool) Run(ctx context.Context, batches []Batch, exec Executor, hooks Hooks) {
	sem := semaphore.NewWeighted(p.workers)
	var wg sync.WaitGroup

	for i := range batches {
		batch := &batches[i]
		state := &batchState{remaining: len(batch.Jobs)}

		if len(batch.Jobs) == 0 {
			if hooks.OnPairDone != nil {
				hooks.OnPairDone(batch.PairKey, nil)
			}
			continue
		}

		for _, job := range batch.Jobs {
			wg.Add(1)
			go func(job ConversionJob) {
				defer wg.Done()

				var result JobResult
				if err := sem.Acquire(ctx, 1); err != nil {
					result = JobResult{Job: job, Status: StatusAbandoned, Error: err.Error()}
				} else {
					result = p.execute(ctx, job, exec)
					sem.Release(1)
				}

				if hooks.OnJobDone != nil {
					hooks.OnJobDone(result)
				}
				p.finish(batch.PairKey, state, result, hooks)
			}(job)
		}
	}

	wg.Wait()
}

func (p *Pool) execute(ctx context.Context, job ConversionJob, exec Executor) JobResult {
	if p.halted.Load() {
		return JobResult{Job: job, Status: StatusAbandoned, Error: "run halted before job started"}
	}

	result, err := exec(ctx, job)
	if err != nil {
		if p.halted.CompareAndSwap(false, true) {
			log.Error("Halting job scheduling: %v", err)
		}
	}
	return result
}

func (p *Pool) finish(pairKey string, state *batchState, result JobResult, hooks Hooks) {
	state.mu.Lock()
	state.results = append(state.results, result)
	state.remaining--
	done := state.remaining == 0
	var results []JobResult
	if done {
		results = state.results
	}
	state.mu.Unlock()

	if !done || hooks.OnPairDone == nil {
		return
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Job.Index < results[j].Job.Index
	})
	hooks.OnPairDone(pairKey, results)
}
