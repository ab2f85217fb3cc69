// Package sqlstore provides a database/sql implementation of storage.Store
// for SQLite, PostgreSQL and MySQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql" // registers "mysql"
	"github.com/lib/pq"              // registers "postgres"
	"modernc.org/sqlite"             // Pure Go SQLite driver (no CGO), registers "sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/youome/internal/models"
	"github.com/mmynk/youome/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on a SQL database.
type Store struct {
	db      *sql.DB
	dialect *dialect
}

// Open connects to the database named by driver ("sqlite", "postgres" or
// "mysql") and runs migrations. For sqlite, dsn is a file path and the
// parent directories are created.
func Open(driver, dsn string) (*Store, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}

	if d == sqliteDialect {
		dsn, err = prepareSQLite(dsn)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", d.name, err)
	}

	s := newStore(db, d)
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

func newStore(db *sql.DB, d *dialect) *Store {
	return &Store{db: db, dialect: d}
}

// prepareSQLite creates the database directory and adds the connection
// pragmas. The pragmas go in the DSN so every pooled connection enforces
// foreign keys.
func prepareSQLite(path string) (string, error) {
	file := path
	if i := strings.IndexByte(path, '?'); i >= 0 {
		file = path[:i]
	}
	if file != ":memory:" && !strings.HasPrefix(file, "file::memory:") {
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return "", fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// q rewrites a query written with ? placeholders for the dialect.
func (s *Store) q(query string) string {
	return s.dialect.rebind(query)
}

// constraintError maps a driver constraint violation to the store's
// sentinel errors. Unique violations become ErrConflict and foreign key
// violations ErrNotFound. Other errors are returned as is.
func constraintError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%w: %w", models.ErrConflict, err)
		case "23503":
			return fmt.Errorf("%w: %w", models.ErrNotFound, err)
		}
		return err
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062:
			return fmt.Errorf("%w: %w", models.ErrConflict, err)
		case 1452:
			return fmt.Errorf("%w: %w", models.ErrNotFound, err)
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		switch {
		case code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, code == sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%w: %w", models.ErrConflict, err)
		case code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %w", models.ErrNotFound, err)
		case code&0xff == sqlite3.SQLITE_CONSTRAINT:
			// Extended result codes disabled: fall back to the message.
			if strings.Contains(err.Error(), "FOREIGN KEY") {
				return fmt.Errorf("%w: %w", models.ErrNotFound, err)
			}
			return fmt.Errorf("%w: %w", models.ErrConflict, err)
		}
	}
	return err
}

// exists runs a single-row existence query.
func exists(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
