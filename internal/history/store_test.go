package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v-zq/media-to-GIF/internal/jobs"
	"github.com/v-zq/media-to-GIF/internal/subtitle"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func result(pairKey string, index int, status jobs.Status) jobs.JobResult {
	return jobs.JobResult{
		Job: jobs.ConversionJob{
			PairKey: pairKey,
			Index:   index,
			Caption: subtitle.Line{
				Index:     index,
				StartTime: time.Duration(index) * time.Second,
				EndTime:   time.Duration(index+1) * time.Second,
				Text:      "caption",
			},
			OutputPath: "gifs/" + pairKey,
		},
		Status:     status,
		DurationMS: 42,
	}
}

func TestStore_RecordAndQuery(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, result("clip", 1, jobs.StatusSuccess)))
	require.NoError(t, store.Record(ctx, result("clip", 2, jobs.StatusFailed)))
	require.NoError(t, store.Record(ctx, result("other", 1, jobs.StatusSuccess)))

	got, err := store.PairResults(ctx, "clip")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, jobs.StatusSuccess, got[0].Status)
	assert.Equal(t, jobs.StatusFailed, got[1].Status)
	assert.Equal(t, int64(42), got[0].DurationMS)
}

func TestStore_RerunOverwritesSameIndex(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, result("clip", 1, jobs.StatusFailed)))
	require.NoError(t, store.Record(ctx, result("clip", 1, jobs.StatusSuccess)))

	got, err := store.PairResults(ctx, "clip")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, jobs.StatusSuccess, got[0].Status)
}

func TestStore_CountByStatus(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, result("a", 1, jobs.StatusSuccess)))
	require.NoError(t, store.Record(ctx, result("a", 2, jobs.StatusSuccess)))
	require.NoError(t, store.Record(ctx, result("b", 1, jobs.StatusAbandoned)))

	counts, err := store.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[jobs.StatusSuccess])
	assert.Equal(t, 1, counts[jobs.StatusAbandoned])
}

func TestOpen_EmptyPathRejected(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}
