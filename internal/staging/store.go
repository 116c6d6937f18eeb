package staging

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes incompatibly.
const schemaVersion = 1

const lockRetryDelay = 50 * time.Millisecond

// ErrSchemaMismatch indicates the database was written by an incompatible version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store persists the staging list in SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the staging database at dbPath. lockPath
// names the file locked during Update.
func Open(dbPath, lockPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
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

	store := &Store{db: db, path: dbPath, lock: flock.New(lockPath)}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load replaces the contents of list with the stored entries without
// notifying observers.
func (s *Store) Load(ctx context.Context, list *List) error {
	rows, err := s.db.QueryContext(ctx, `SELECT file_id, name, data, added_at FROM staged_files ORDER BY position`)
	if err != nil {
		return fmt.Errorf("query staged files: %w", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var (
			f       File
			addedAt string
		)
		if err := rows.Scan(&f.ID, &f.Name, &f.Data, &addedAt); err != nil {
			return fmt.Errorf("scan staged file: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, addedAt); err == nil {
			f.AddedAt = ts
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate staged files: %w", err)
	}
	list.restore(files)
	return nil
}

// Save replaces the stored entries with the contents of list.
func (s *Store) Save(ctx context.Context, list *List) error {
	files := list.Files()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM staged_files`); err != nil {
		return fmt.Errorf("clear staged files: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO staged_files (file_id, position, name, data, added_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range files {
		if _, err := stmt.ExecContext(ctx, f.ID, i, f.Name, f.Data, f.AddedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert staged file %s: %w", f.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit staged files: %w", err)
	}
	return nil
}

// Update locks the store, loads list, runs fn, and saves list when fn
// returns nil. The stored list is untouched when fn fails.
func (s *Store) Update(ctx context.Context, list *List, fn func(*List) error) error {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.Load(ctx, list); err != nil {
		return err
	}
	if err := fn(list); err != nil {
		return err
	}
	return s.Save(ctx, list)
}

// Snapshot loads list under the staging lock and releases it again, so the
// caller can work on a consistent copy without blocking other writers.
func (s *Store) Snapshot(ctx context.Context, list *List) error {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	return s.Load(ctx, list)
}

func (s *Store) acquire(ctx context.Context) (func(), error) {
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire staging lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("acquire staging lock: %s is held by another process", s.lock.Path())
	}
	return func() { _ = s.lock.Unlock() }, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset staging)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
