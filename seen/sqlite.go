package seen

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/newswatch"
)

// DefaultTable is the seen-links table name.
const DefaultTable = "seen_links"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteStore keeps identifiers in a single-column table with the link as
// primary key. The database is opened for each call and closed afterwards so
// the file can be replaced between calls (see Mirrored).
type SQLiteStore struct {
	path  string
	table string
}

// NewSQLiteStore creates a store backed by the database at dbPath. An empty
// table selects DefaultTable.
func NewSQLiteStore(dbPath, table string) (*SQLiteStore, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &SQLiteStore{path: dbPath, table: table}, nil
}

// Path returns the database file.
func (s *SQLiteStore) Path() string {
	return s.path
}

// withDB opens the database, makes sure the table exists, runs fn and closes
// the connection.
func (s *SQLiteStore) withDB(ctx context.Context, fn func(db *sql.DB) error) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := s.initSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return fn(db)
}

// initSchema creates the seen table if it doesn't exist.
func (s *SQLiteStore) initSchema(ctx context.Context, db *sql.DB) error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		link TEXT PRIMARY KEY
	);
	`, s.table)

	_, err := db.ExecContext(ctx, schema)
	return err
}

// Load returns every stored link.
func (s *SQLiteStore) Load(ctx context.Context) (*newswatch.Set, error) {
	set := newswatch.NewSet()

	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT link FROM %s", s.table))
		if err != nil {
			return fmt.Errorf("failed to query links: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var link string
			if err := rows.Scan(&link); err != nil {
				return fmt.Errorf("failed to scan link: %w", err)
			}
			set.Add(link)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return set, nil
}

// Save replaces the table content with set in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, set *newswatch.Set) error {
	return s.withDB(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", s.table)); err != nil {
			return fmt.Errorf("failed to clear links: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT OR IGNORE INTO %s (link) VALUES (?)", s.table))
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, link := range set.Sorted() {
			if _, err := stmt.ExecContext(ctx, link); err != nil {
				return fmt.Errorf("failed to insert link: %w", err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit links: %w", err)
		}
		return nil
	})
}
