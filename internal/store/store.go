package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (slides, recordings)
// 1 - Added partial UNIQUE index enforcing a single active slide
// 2 - Rebuilt slides with CHECK (number >= 1)
const currentSchemaVersion = 2

// Store provides durable storage for a slide deck and its recording log.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// ":memory:" opens a private in-memory deck.
// Applies required pragmas and migrations automatically.
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection: keeps ":memory:" databases alive and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Slides returns the slide collection outside any transaction.
// Reads through it are safe; multi-step writes belong in Atomic.
func (s *Store) Slides() *Slides {
	return &Slides{q: s.db}
}

// View runs fn against the collection without opening a transaction.
func (s *Store) View(ctx context.Context, fn func(Collection) error) error {
	return fn(s.Slides())
}

// Atomic runs fn inside a single transaction. The transaction commits when
// fn returns nil and rolls back otherwise, so a failed composite operation
// leaves no partial writes behind.
func (s *Store) Atomic(ctx context.Context, fn func(Collection) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("atomic: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(&Slides{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("atomic: commit: %w", err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if version < 2 {
		if err := migrateToV2(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the single-active index. Decks written before v1 may
// already hold several active slides; all but the lowest-numbered one are
// cleared first so the index can be built.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		UPDATE slides SET active = 0
		WHERE active = 1 AND number > (SELECT MIN(number) FROM slides WHERE active = 1)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: clear extra active slides: %w", err)
	}

	_, err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_slides_single_active
		ON slides(active) WHERE active = 1
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// migrateToV2 rebuilds the slides table so it carries CHECK (number >= 1).
// SQLite cannot add a constraint in place. Rows holding a number below 1
// keep their relative order and move past the highest valid number.
func migrateToV2(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate to v2: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmts := []string{
		`CREATE TABLE slides_v2 (
			id     TEXT PRIMARY KEY,
			number INTEGER NOT NULL CHECK (number >= 1),
			data   TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 0 CHECK (active IN (0, 1))
		)`,
		`INSERT INTO slides_v2 (id, number, data, active)
		SELECT s.id,
			CASE WHEN s.number >= 1 THEN s.number
			ELSE (SELECT COALESCE(MAX(number), 0) FROM slides)
				+ (SELECT COUNT(*) FROM slides b WHERE b.number < 1 AND b.number <= s.number)
			END,
			s.data, s.active
		FROM slides s`,
		`DROP TABLE slides`,
		`ALTER TABLE slides_v2 RENAME TO slides`,
		`CREATE UNIQUE INDEX idx_slides_number ON slides(number)`,
		`CREATE UNIQUE INDEX idx_slides_single_active ON slides(active) WHERE active = 1`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("migrate to v2: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate to v2: commit: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
