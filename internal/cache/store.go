package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"captiongen/internal/transcript"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 2

// ErrSchemaMismatch indicates the database was written by an incompatible version.
var ErrSchemaMismatch = errors.New("cache schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Key identifies one transcription: the media content plus the settings
// that influence recognition.
type Key struct {
	ContentHash string
	Engine      string
	Model       string
	Language    string
	FP16        bool
}

// String returns the hex digest stored as the primary key.
func (k Key) String() string {
	fp16 := "0"
	if k.FP16 {
		fp16 = "1"
	}
	sum := sha256.Sum256([]byte(strings.Join([]string{k.ContentHash, k.Engine, k.Model, k.Language, fp16}, "\x00")))
	return hex.EncodeToString(sum[:])
}

// Entry is a cached transcript with its provenance.
type Entry struct {
	Key        string
	SourcePath string
	Engine     string
	Model      string
	Language   string
	CreatedAt  time.Time
	Transcript *transcript.Transcript
}

// Store wraps the SQLite transcript cache.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
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
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
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
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
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
	return tx.Commit()
}

// Get returns the cached transcript for key, or nil when absent.
func (s *Store) Get(ctx context.Context, key Key) (*Entry, error) {
	var (
		entry   Entry
		created int64
		payload []byte
	)
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT cache_key, source_path, engine, model, language, created_at, payload
			 FROM transcripts WHERE cache_key = ?`, key.String(),
		).Scan(&entry.Key, &entry.SourcePath, &entry.Engine, &entry.Model, &entry.Language, &created, &payload)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}
	entry.CreatedAt = time.Unix(0, created).UTC()
	if entry.Transcript, err = transcript.Parse(payload); err != nil {
		return nil, fmt.Errorf("decode cached transcript: %w", err)
	}
	return &entry, nil
}

// Put stores or replaces the transcript for key.
func (s *Store) Put(ctx context.Context, key Key, sourcePath string, t *transcript.Transcript) error {
	if t == nil {
		return errors.New("put transcript: nil transcript")
	}
	payload, err := t.Marshal()
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	now := time.Now().UnixNano()
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO transcripts (cache_key, source_path, engine, model, language, created_at, payload)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(cache_key) DO UPDATE SET
			   source_path = excluded.source_path,
			   created_at = excluded.created_at,
			   payload = excluded.payload`,
			key.String(), sourcePath, key.Engine, key.Model, key.Language, now, payload,
		)
		return err
	})
}

// Prune removes entries created before cutoff and reports how many were deleted.
// created_at holds unix nanoseconds so the comparison is numeric.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM transcripts WHERE created_at < ?", cutoff.UnixNano())
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	return removed, err
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
