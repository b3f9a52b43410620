// Package history keeps a SQLite ledger of every conversion attempt across
// runs, one row per (pair, index), latest attempt wins.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/v-zq/media-to-GIF/internal/jobs"
)

const schema = `CREATE TABLE IF NOT EXISTS job_results (
	pair_key    TEXT    NOT NULL,
	seq_index   INTEGER NOT NULL,
	caption     TEXT    NOT NULL,
	output_path TEXT    NOT NULL,
	status      TEXT    NOT NULL,
	error       TEXT    NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	recorded_at DATETIME NOT NULL,
	PRIMARY KEY (pair_key, seq_index)
);`

// Result is one persisted ledger row.
type Result struct {
	PairKey    string
	Index      int
	Caption    string
	OutputPath string
	Status     jobs.Status
	Error      string
	DurationMS int64
	RecordedAt time.Time
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create job_results: %w", err)
	}
	return nil
}

// Record upserts one job result.
func (s *Store) Record(ctx context.Context, result jobs.JobResult) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO job_results
		(pair_key, seq_index, caption, output_path, status, error, duration_ms, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (pair_key, seq_index) DO UPDATE SET
			caption = excluded.caption,
			output_path = excluded.output_path,
			status = excluded.status,
			error = excluded.error,
			duration_ms = excluded.duration_ms,
			recorded_at = excluded.recorded_at`,
		result.Job.PairKey,
		result.Job.Index,
		result.Job.Caption.Text,
		result.Job.OutputPath,
		string(result.Status),
		result.Error,
		result.DurationMS,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record result %s/%d: %w", result.Job.PairKey, result.Job.Index, err)
	}
	return nil
}

// PairResults returns the ledger rows for one pair ordered by index.
func (s *Store) PairResults(ctx context.Context, pairKey string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		pair_key, seq_index, caption, output_path, status, error, duration_ms, recorded_at
		FROM job_results WHERE pair_key = ? ORDER BY seq_index`, pairKey)
	if err != nil {
		return nil, fmt.Errorf("query results for %s: %w", pairKey, err)
	}
	defer rows.Close()

	var ret []Result
	for rows.Next() {
		var r Result
		var status string
		if err := rows.Scan(&r.PairKey, &r.Index, &r.Caption, &r.OutputPath,
			&status, &r.Error, &r.DurationMS, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		r.Status = jobs.Status(status)
		ret = append(ret, r)
	}
	return ret, rows.Err()
}

// CountByStatus aggregates the whole ledger.
func (s *Store) CountByStatus(ctx context.Context) (map[jobs.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM job_results GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	ret := make(map[jobs.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan count row: %w", err)
		}
		ret[jobs.Status(status)] = count
	}
	return ret, rows.Err()
}
