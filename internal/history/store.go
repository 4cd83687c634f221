package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"dirprint/internal/fingerprint"
)

// Run is one recorded fingerprint computation.
type Run struct {
	ID               string        `json:"id"`
	Root             string        `json:"root"`
	DirectoryName    string        `json:"directory_name"`
	Algorithm        string        `json:"algorithm"`
	IncludeFilenames bool          `json:"include_filenames"`
	SortFiles        bool          `json:"sort_files"`
	NormalizeUnicode bool          `json:"normalize_unicode"`
	Digest           string        `json:"digest"`
	FileCount        int           `json:"file_count"`
	HashedCount      int           `json:"hashed_count"`
	UnreadableCount  int           `json:"unreadable_count"`
	ComputedAt       time.Time     `json:"computed_at"`
	Elapsed          time.Duration `json:"elapsed"`
}

// Key identifies runs whose digests are comparable: same root, algorithm and
// hashing options.
type Key struct {
	Root             string
	Algorithm        string
	IncludeFilenames bool
	SortFiles        bool
	NormalizeUnicode bool
}

// KeyFor derives the comparison key of a result.
func KeyFor(res *fingerprint.Result) Key {
	return Key{
		Root:             res.Root,
		Algorithm:        res.Algorithm.String(),
		IncludeFilenames: res.IncludeFilenames,
		SortFiles:        res.SortFiles,
		NormalizeUnicode: res.NormalizeUnicode,
	}
}

// Filter narrows List. Zero values match everything; Limit <= 0 means no
// limit.
type Filter struct {
	DirectoryName string
	Root          string
	Limit         int
}

// Store persists runs in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or connects to the history database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts a completed result keyed by its run id.
func (s *Store) Record(ctx context.Context, res *fingerprint.Result) error {
	if res == nil {
		return errors.New("record: nil result")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            id, root, directory_name, algorithm, include_filenames, sort_files,
            normalize_unicode, digest, file_count, hashed_count, unreadable_count,
            computed_at_ns, elapsed_ms
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID,
		res.Root,
		res.DirectoryName,
		res.Algorithm.String(),
		boolToInt(res.IncludeFilenames),
		boolToInt(res.SortFiles),
		boolToInt(res.NormalizeUnicode),
		res.Digest,
		res.FileCount,
		res.HashedCount,
		len(res.Warnings),
		res.ComputedAt.UnixNano(),
		res.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

const runColumns = `id, root, directory_name, algorithm, include_filenames, sort_files,
    normalize_unicode, digest, file_count, hashed_count, unreadable_count,
    computed_at_ns, elapsed_ms`

// Latest returns the newest run matching key, or nil when there is none.
func (s *Store) Latest(ctx context.Context, key Key) (*Run, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+runColumns+` FROM runs
        WHERE root = ? AND algorithm = ? AND include_filenames = ?
            AND sort_files = ? AND normalize_unicode = ?
        ORDER BY computed_at_ns DESC, rowid DESC LIMIT 1`,
		key.Root,
		key.Algorithm,
		boolToInt(key.IncludeFilenames),
		boolToInt(key.SortFiles),
		boolToInt(key.NormalizeUnicode),
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List returns runs newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Run, error) {
	var (
		clauses []string
		args    []any
	)
	if name := strings.TrimSpace(filter.DirectoryName); name != "" {
		clauses = append(clauses, "directory_name = ?")
		args = append(args, name)
	}
	if root := strings.TrimSpace(filter.Root); root != "" {
		clauses = append(clauses, "root = ?")
		args = append(args, root)
	}
	query := `SELECT ` + runColumns + ` FROM runs`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY computed_at_ns DESC, rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Prune keeps the newest keep runs per root and deletes the rest. keep <= 0
// disables pruning.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM runs WHERE id IN (
            SELECT id FROM (
                SELECT id, ROW_NUMBER() OVER (
                    PARTITION BY root ORDER BY computed_at_ns DESC, rowid DESC
                ) AS pos FROM runs
            ) WHERE pos > ?
        )`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run              Run
		includeFilenames int
		sortFiles        int
		normalizeUnicode int
		computedAtNs     int64
		elapsedMs        int64
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Root,
		&run.DirectoryName,
		&run.Algorithm,
		&includeFilenames,
		&sortFiles,
		&normalizeUnicode,
		&run.Digest,
		&run.FileCount,
		&run.HashedCount,
		&run.UnreadableCount,
		&computedAtNs,
		&elapsedMs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.IncludeFilenames = includeFilenames != 0
	run.SortFiles = sortFiles != 0
	run.NormalizeUnicode = normalizeUnicode != 0
	run.ComputedAt = time.Unix(0, computedAtNs)
	run.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	return &run, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
