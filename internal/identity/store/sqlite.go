package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shandysiswandi/gounified/internal/identity/entity"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gounified/unified"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var sqliteSchema string

// SQLiteStore keeps analyses in a single SQLite table. Identifiers are
// stored in their canonical string form.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection serializes read-modify-write transactions.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

const sqliteColumns = `id, status, strategy, source, length, count, samples, partitions,
	buckets, min_count, max_count, mean, spread, err, started_at, ended_at`

func (s *SQLiteStore) CreateAnalysis(ctx context.Context, a entity.Analysis) error {
	buckets, err := json.Marshal(a.Buckets)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO analyses (`+sqliteColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING`,
		a.ID, string(a.Status), string(a.Strategy), a.Source, a.Length, int64(a.Count), a.Samples, a.Partitions,
		string(buckets), a.Min, a.Max, a.Mean, a.Spread, a.Err, a.StartedAt, a.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	if n == 0 {
		return errConflict
	}

	return nil
}

func (s *SQLiteStore) UpdateAnalysis(ctx context.Context, id unified.ID, fn func(a *entity.Analysis)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	//nolint:errcheck // no-op after commit
	defer tx.Rollback()

	a, err := scanAnalysis(tx.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM analyses WHERE id = ?`, id))
	if err != nil {
		return err
	}

	fn(&a)

	buckets, err := json.Marshal(a.Buckets)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
UPDATE analyses SET
	status = ?, strategy = ?, source = ?, length = ?, count = ?, samples = ?, partitions = ?,
	buckets = ?, min_count = ?, max_count = ?, mean = ?, spread = ?, err = ?, started_at = ?, ended_at = ?
WHERE id = ?`,
		string(a.Status), string(a.Strategy), a.Source, a.Length, int64(a.Count), a.Samples, a.Partitions,
		string(buckets), a.Min, a.Max, a.Mean, a.Spread, a.Err, a.StartedAt, a.EndedAt, id,
	)
	if err != nil {
		return fmt.Errorf("update analysis: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetAnalysis(ctx context.Context, id unified.ID) (entity.Analysis, error) {
	return scanAnalysis(s.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM analyses WHERE id = ?`, id))
}

func (s *SQLiteStore) Close(context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func scanAnalysis(row *sql.Row) (entity.Analysis, error) {
	var (
		a       entity.Analysis
		buckets string
	)

	err := row.Scan(
		&a.ID, &a.Status, &a.Strategy, &a.Source, &a.Length, &a.Count, &a.Samples, &a.Partitions,
		&buckets, &a.Min, &a.Max, &a.Mean, &a.Spread, &a.Err, &a.StartedAt, &a.EndedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Analysis{}, pkgerror.ErrNotFound
	}
	if err != nil {
		return entity.Analysis{}, fmt.Errorf("scan analysis: %w", err)
	}

	if err := json.Unmarshal([]byte(buckets), &a.Buckets); err != nil {
		return entity.Analysis{}, fmt.Errorf("decode buckets: %w", err)
	}
	if len(a.Buckets) == 0 {
		a.Buckets = nil
	}

	return a, nil
}
