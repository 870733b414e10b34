package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store is a sqlite-backed entity resolver and query log.
// Safe for concurrent use; writes are serialized by the single connection.
type Store struct {
	db *sql.DB
}

// Connection pragmas, passed as go-sqlite3 DSN parameters so they hold for
// every connection the pool opens.
var pragmas = url.Values{
	"_journal_mode": {"WAL"},
	"_synchronous":  {"NORMAL"},
	"_busy_timeout": {"5000"},
	"_foreign_keys": {"on"},
}

// dsn turns a file path, or ":memory:", into a go-sqlite3 URI with pragmas.
func dsn(path string) string {
	return "file:" + path + "?" + pragmas.Encode()
}

// Open creates or opens a SQLite database at path and brings its schema up
// to date. Opening an existing database is safe.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: an in-memory database is per connection, and sqlite
	// has one writer anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	version, err := migrate(context.Background(), db)
	if err != nil {
		db.Close()
		return nil, err
	}

	slog.Debug("store opened", "path", path, "schema_version", version)
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
func (s *Store) DB() *sql.DB {
	return s.db
}

// migration upgrades a database from version-1 to version. schema.sql
// already creates the current layout, so each step must be a no-op on a
// fresh database.
type migration struct {
	version int
	name    string
	apply   func(ctx context.Context, tx *sql.Tx) error
}

var migrations = []migration{
	{1, "index entity search keys", func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`CREATE INDEX IF NOT EXISTS idx_entities_search_key ON entities(type, search_key)`)
		return err
	}},
	{2, "count repeated queries", func(ctx context.Context, tx *sql.Tx) error {
		ok, err := hasColumn(ctx, tx, "queries", "hits")
		if err != nil || ok {
			return err
		}
		_, err = tx.ExecContext(ctx, `ALTER TABLE queries ADD COLUMN hits INTEGER NOT NULL DEFAULT 1`)
		return err
	}},
}

// currentSchemaVersion is the user_version of a fully migrated database.
var currentSchemaVersion = migrations[len(migrations)-1].version

// migrate applies every migration newer than the database's user_version,
// each in its own transaction, and returns the resulting version.
func migrate(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return version, fmt.Errorf("migrate to v%d: %w", m.version, err)
		}
		if err := m.apply(ctx, tx); err != nil {
			tx.Rollback()
			return version, fmt.Errorf("migrate to v%d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			tx.Rollback()
			return version, fmt.Errorf("migrate to v%d: set user_version: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return version, fmt.Errorf("migrate to v%d: %w", m.version, err)
		}
		slog.Debug("store migrated", "version", m.version, "migration", m.name)
		version = m.version
	}
	return version, nil
}

func hasColumn(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("inspect %s: %w", table, err)
	}
	return n > 0, nil
}

// pragma reads a connection pragma as text.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("failed to query %s: %w", name, err)
	}
	return value, nil
}
