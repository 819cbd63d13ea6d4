package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/linkrank/internal/graph"
	"github.com/papapumpkin/linkrank/internal/rank"
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id         TEXT PRIMARY KEY,
    corpus     TEXT NOT NULL,
    pages      INTEGER NOT NULL,
    damping    REAL NOT NULL,
    samples    INTEGER NOT NULL,
    threshold  REAL NOT NULL,
    dangling   TEXT NOT NULL,
    seed       INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ranks (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    method TEXT NOT NULL,
    page   TEXT NOT NULL,
    value  REAL NOT NULL,
    PRIMARY KEY (run_id, method, page)
);

CREATE INDEX IF NOT EXISTS runs_created_at ON runs(created_at);
`

// SQLiteStore implements Store using a local SQLite database in WAL mode.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, enables WAL
// mode and busy timeout, and creates the schema tables if they do not exist.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite allows a single writer; one pooled connection keeps the PRAGMAs
	// below in effect for every statement.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// SaveRun inserts the run row and every per-page value in a single
// transaction. A zero CreatedAt is set to the current time. Saving an ID
// twice fails.
func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("store: run ID is empty")
	}
	created := run.CreatedAt
	if created.IsZero() {
		created = s.now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx for run %q: %w", run.ID, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	const insertRun = `
		INSERT INTO runs (id, corpus, pages, damping, samples, threshold, dangling, seed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insertRun,
		run.ID, run.Corpus, run.Pages, run.Damping, run.Samples, run.Threshold,
		run.Dangling, int64(run.Seed), created.UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("store: insert run %q: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO ranks (run_id, method, page, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare rank insert: %w", err)
	}
	defer stmt.Close()

	for _, method := range run.Methods() {
		for _, e := range run.Results[method].ByPage() {
			if _, err := stmt.ExecContext(ctx, run.ID, method, string(e.Page), e.Value); err != nil {
				return fmt.Errorf("store: insert rank %q/%s/%s: %w", run.ID, method, e.Page, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit run %q: %w", run.ID, err)
	}
	return nil
}

const runColumns = `id, corpus, pages, damping, samples, threshold, dangling, seed, created_at`

// Runs returns stored runs newest first, without their results.
func (s *SQLiteStore) Runs(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate runs: %w", err)
	}
	return runs, nil
}

// Run loads one run and all of its results.
func (s *SQLiteStore) Run(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("store: %w: %q", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT method, page, value FROM ranks WHERE run_id = ? ORDER BY method, page`, id)
	if err != nil {
		return Run{}, fmt.Errorf("store: query ranks for %q: %w", id, err)
	}
	defer rows.Close()

	r.Results = make(map[string]rank.Distribution)
	for rows.Next() {
		var method, page string
		var value float64
		if err := rows.Scan(&method, &page, &value); err != nil {
			return Run{}, fmt.Errorf("store: scan rank: %w", err)
		}
		if r.Results[method] == nil {
			r.Results[method] = make(rank.Distribution)
		}
		r.Results[method][graph.Page(page)] = value
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("store: iterate ranks: %w", err)
	}
	return r, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(sc rowScanner) (Run, error) {
	var r Run
	var seed int64
	var ts string
	err := sc.Scan(&r.ID, &r.Corpus, &r.Pages, &r.Damping, &r.Samples, &r.Threshold, &r.Dangling, &seed, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("store: scan run: %w", err)
	}
	r.Seed = uint64(seed)
	created, err := parseTimestamp(ts)
	if err != nil {
		return Run{}, fmt.Errorf("store: parse run timestamp: %w", err)
	}
	r.CreatedAt = created
	return r, nil
}

// timeLayout is fixed-width so that stored timestamps sort chronologically
// as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// timestampFormats lists the formats SQLite drivers may produce for
// timestamps. modernc.org/sqlite typically returns RFC 3339 (with "T"
// separator and "Z" suffix), while canonical SQLite returns the
// space-separated DateTime format.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.DateTime,
}

// parseTimestamp attempts to parse a SQLite timestamp string using known formats.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}
