package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pagesearch/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driven"
)

// DatabaseFile is the ledger file name inside the data directory.
const DatabaseFile = "ledger.db"

// Store is a SQLite-backed ingestion ledger.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.IngestionStore = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.pagesearch/data/ledger.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pagesearch", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_ingestions.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// Save stores or replaces the record for its URL.
func (s *Store) Save(ctx context.Context, record domain.IngestionRecord) error {
	if record.URL == "" {
		return fmt.Errorf("%w: ingestion record without url", domain.ErrInvalidInput)
	}
	if record.IndexedAt.IsZero() {
		record.IndexedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingestions (url, title, chunks_count, strategy, indexed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			chunks_count = excluded.chunks_count,
			strategy = excluded.strategy,
			indexed_at = excluded.indexed_at
	`, record.URL, record.Title, record.ChunksCount, string(record.Strategy), record.IndexedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving ingestion %s: %w", record.URL, err)
	}
	return nil
}

// Get retrieves the record for a URL.
func (s *Store) Get(ctx context.Context, url string) (*domain.IngestionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT url, title, chunks_count, strategy, indexed_at
		FROM ingestions WHERE url = ?
	`, url)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting ingestion %s: %w", url, err)
	}
	return record, nil
}

// List returns all records, most recently indexed first.
func (s *Store) List(ctx context.Context) ([]domain.IngestionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, title, chunks_count, strategy, indexed_at
		FROM ingestions ORDER BY indexed_at DESC, url ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing ingestions: %w", err)
	}
	defer rows.Close()

	records := []domain.IngestionRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ingestion: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// Delete removes the record for a URL. Deleting an unknown URL is not an error.
func (s *Store) Delete(ctx context.Context, url string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM ingestions WHERE url = ?", url); err != nil {
		return fmt.Errorf("deleting ingestion %s: %w", url, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.IngestionRecord, error) {
	var (
		record    domain.IngestionRecord
		strategy  string
		indexedAt int64
	)
	if err := row.Scan(&record.URL, &record.Title, &record.ChunksCount, &strategy, &indexedAt); err != nil {
		return nil, err
	}
	record.Strategy = domain.ScoringStrategy(strategy)
	record.IndexedAt = time.Unix(0, indexedAt)
	return &record, nil
}
