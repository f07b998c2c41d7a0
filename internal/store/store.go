package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// migration upgrades a database from version-1 to version.
type migration struct {
	version int
	name    string
	stmt    string
}

// migrations are applied in order to databases whose user_version is below
// their version. Fresh databases get the same end state from schema.sql
// plus every migration, since each statement is IF NOT EXISTS.
//
// Schema version tracking:
// 0 - Initial reductions table
// 1 - Index on reductions(run_id, seq) for List
var migrations = []migration{
	{
		version: 1,
		name:    "index reductions by run",
		stmt:    `CREATE INDEX IF NOT EXISTS idx_reductions_run ON reductions(run_id, seq)`,
	},
}

// currentSchemaVersion is the version every opened database ends at.
var currentSchemaVersion = migrations[len(migrations)-1].version

// DefaultBusyTimeout is how long a connection waits on a locked database.
const DefaultBusyTimeout = 5 * time.Second

// Store is a durable, content-addressed cache of beta reductions.
// Uses SQLite with WAL mode so a replay can read while a reduce writes.
//
// Thread-safety: the pool is capped at one connection, so every method is
// safe for concurrent use and writes are serialized.
type Store struct {
	db *sql.DB
}

// Option configures Open.
type Option func(*openConfig)

type openConfig struct {
	busyTimeout time.Duration
}

// WithBusyTimeout sets how long a connection waits for a lock held by
// another process (for example a second xrq writing the same cache).
// Non-positive values keep DefaultBusyTimeout.
func WithBusyTimeout(d time.Duration) Option {
	return func(c *openConfig) {
		if d > 0 {
			c.busyTimeout = d
		}
	}
}

// Open creates or opens a reduction cache at path.
//
// The database is configured with:
//   - WAL mode, so readers never block the single writer
//   - NORMAL synchronous mode: a crash may lose the last cached reductions,
//     which only costs a recomputation
//   - a busy timeout (DefaultBusyTimeout unless WithBusyTimeout is given)
//
// The schema is created and migrated to currentSchemaVersion. Opening an
// existing cache is idempotent and keeps its rows.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := openConfig{busyTimeout: DefaultBusyTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	// sql.Open is lazy; the file is created on the first connection.
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open reduction cache %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to reduction cache %s: %w", path, err)
	}

	// Pragmas are per connection. A single pooled connection keeps them in
	// effect for every statement and avoids SQLITE_BUSY between our own
	// writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db, cfg); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure reduction cache: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare reduction cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection. Closing a zero Store is a no-op.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewRunID returns a time-ordered identifier grouping the records written
// by one invocation of the tool. UUIDv7 sorts by creation time, so runs
// list in the order they happened.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func applyPragmas(db *sql.DB, cfg openConfig) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout.Milliseconds()),
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates the reductions table and runs pending migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return runMigrations(db)
}

// runMigrations applies every migration above the stored user_version, then
// records currentSchemaVersion. A cache written by a newer xrq is rejected
// rather than downgraded.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		if _, err := db.Exec(m.stmt); err != nil {
			return fmt.Errorf("migrate to v%d (%s): %w", m.version, m.name, err)
		}
	}

	// PRAGMA does not take bind parameters.
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// schemaVersion reads PRAGMA user_version. Used for testing.
func (s *Store) schemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
