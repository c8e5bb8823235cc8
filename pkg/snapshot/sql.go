package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/umputun/paperscope/pkg/domain"
)

const sqlSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	date TEXT PRIMARY KEY,
	total_count INTEGER NOT NULL DEFAULT 0,
	papers TEXT NOT NULL DEFAULT '[]',
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// SQLStore keeps snapshots as rows of a sqlite table, one row per day
type SQLStore struct {
	db *sqlx.DB
}

type snapshotRow struct {
	Date       string `db:"date"`
	TotalCount int    `db:"total_count"`
	Papers     string `db:"papers"`
}

// NewSQLStore opens the database and creates the schema if missing
func NewSQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	if dsn == "" {
		dsn = "file:paperscope.db?cache=shared&mode=rwc&_txlock=immediate"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// a single writer is enough for one run per day
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000", // 5 second timeout for locks
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, sqlSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Load returns titles recorded for the day, empty set if there is no record
func (s *SQLStore) Load(ctx context.Context, day time.Time) (map[string]struct{}, error) {
	return load(ctx, s, day)
}

// Get reads the snapshot row for the day
func (s *SQLStore) Get(ctx context.Context, day time.Time) (domain.Snapshot, error) {
	var row snapshotRow
	err := s.db.GetContext(ctx, &row, "SELECT date, total_count, papers FROM snapshots WHERE date = ?",
		day.Format(domain.DateLayout))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}

	snap := domain.Snapshot{Date: row.Date, TotalCount: row.TotalCount}
	if err := json.Unmarshal([]byte(row.Papers), &snap.Papers); err != nil {
		return domain.Snapshot{}, fmt.Errorf("unmarshal papers: %w", err)
	}
	return snap, nil
}

// Save upserts the full title set for the day, retrying on sqlite lock errors
func (s *SQLStore) Save(ctx context.Context, day time.Time, titles []string) error {
	snap := domain.NewSnapshot(day, titles)
	papers, err := json.Marshal(snap.Papers)
	if err != nil {
		return fmt.Errorf("marshal papers: %w", err)
	}

	query := `
		INSERT INTO snapshots (date, total_count, papers, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			total_count = excluded.total_count,
			papers = excluded.papers,
			updated_at = CURRENT_TIMESTAMP
	`

	var critical error
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err = retrier.Do(ctx, func() error {
		if critical != nil {
			return nil // already failed with non-retryable error
		}
		if _, err := s.db.ExecContext(ctx, query, snap.Date, snap.TotalCount, string(papers)); err != nil {
			if isLockError(err) {
				return err // retry
			}
			critical = err
		}
		return nil
	})
	if critical != nil {
		return fmt.Errorf("save snapshot: %w", critical)
	}
	if err != nil {
		return fmt.Errorf("save snapshot after retries: %w", err)
	}
	return nil
}

// Dates lists days with stored snapshots, newest first
func (s *SQLStore) Dates(ctx context.Context) ([]string, error) {
	res := []string{}
	if err := s.db.SelectContext(ctx, &res, "SELECT date FROM snapshots ORDER BY date DESC"); err != nil {
		return nil, fmt.Errorf("list snapshot dates: %w", err)
	}
	return res, nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}
