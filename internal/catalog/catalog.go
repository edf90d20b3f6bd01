package catalog

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added name index for GetByName lookups
const currentSchemaVersion = 1

// Entry is one cataloged query.
type Entry struct {
	ID          string
	Name        string
	Cube        string
	MDX         string
	ContentHash string
	CreatedSeq  int64
}

// Sequencer stamps writes with a monotonic sequence number.
// Clock is the production implementation; tests may inject their own.
type Sequencer interface {
	Next() int64
}

// Catalog stores rendered queries in a SQLite database.
type Catalog struct {
	db  *sql.DB
	seq Sequencer
	ids IDGenerator
}

// Option adjusts how Open assembles the catalog.
type Option func(*Catalog)

// WithSequencer replaces the logical clock, so tests control sequence
// numbers. Open then skips resuming the counter from the database.
func WithSequencer(seq Sequencer) Option {
	return func(c *Catalog) { c.seq = seq }
}

// WithIDGenerator replaces the UUIDv7 entry ID source, so tests get
// predictable IDs.
func WithIDGenerator(ids IDGenerator) Option {
	return func(c *Catalog) { c.ids = ids }
}

// Open creates or opens a SQLite catalog at the given path.
// Applies required pragmas and migrations automatically.
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Single writer to avoid SQLITE_BUSY errors
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

	c := &Catalog{db: db}
	for _, opt := range opts {
		opt(c)
	}
	if c.ids == nil {
		c.ids = UUIDv7Generator{}
	}
	if c.seq == nil {
		var last int64
		if err := db.QueryRow("SELECT COALESCE(MAX(created_seq), 0) FROM queries").Scan(&last); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to resume sequence: %w", err)
		}
		c.seq = NewClockAt(last)
	}
	return c, nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
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
// This function is idempotent.
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
		version = 1
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the name index for databases created before it was
// part of schema.sql. CREATE INDEX IF NOT EXISTS is a no-op when the
// index already exists.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_queries_name
		ON queries(name)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}
