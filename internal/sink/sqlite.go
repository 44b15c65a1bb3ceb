package sink

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/aul2madb/internal/unifiedlog"
)

//go:embed schema.sql
var schemaSQL string

// TableName is the output table.
const TableName = "UnifiedLogs"

var insertSQL = "INSERT INTO " + TableName + " (" + strings.Join(Columns, ", ") + ") VALUES (?" +
	strings.Repeat(", ?", len(Columns)-1) + ")"

// SQLite writes entries into the UnifiedLogs table of a new database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates a new database at path, switches it to WAL journal
// mode and creates the UnifiedLogs table. It fails if path already exists.
func OpenSQLite(path string) (*SQLite, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("open database: %s: %w", path, fs.ErrExist)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite has a single writer; one connection keeps pragmas in effect.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Write inserts entries in a single transaction.
func (s *SQLite) Write(ctx context.Context, entries []unifiedlog.LogData) error {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = NewRow(e)
	}
	return s.InsertRows(ctx, rows)
}

// InsertRows inserts pre-rendered rows in a single transaction.
func (s *SQLite) InsertRows(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert rows: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("insert rows: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Values()...); err != nil {
			return fmt.Errorf("insert rows: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert rows: commit: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *SQLite) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
