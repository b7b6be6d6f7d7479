package kvstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

const (
	selectEntrySQL = "SELECT v FROM kv_entries WHERE k = ?"

	mysqlSchemaSQL = `CREATE TABLE IF NOT EXISTS kv_entries (
	k VARCHAR(255) NOT NULL PRIMARY KEY,
	v LONGTEXT NOT NULL
)`
	mysqlUpsertSQL = "INSERT INTO kv_entries (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)"

	sqliteSchemaSQL = `CREATE TABLE IF NOT EXISTS kv_entries (
	k TEXT NOT NULL PRIMARY KEY,
	v TEXT NOT NULL
)`
	sqliteUpsertSQL = "INSERT INTO kv_entries (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v"

	// ER_RECORD_FILE_FULL
	mysqlErrTableFull = 1114
)

// SQLStore keeps entries in a kv_entries table.
type SQLStore struct {
	db        *sqlx.DB
	schemaSQL string
	upsertSQL string
	isQuota   func(error) bool
}

// NewMySQLStore returns a store backed by an already opened MySQL connection.
func NewMySQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{
		db:        db,
		schemaSQL: mysqlSchemaSQL,
		upsertSQL: mysqlUpsertSQL,
		isQuota:   isMySQLQuotaError,
	}
}

// EnsureSchema creates the kv_entries table when it does not exist yet.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.schemaSQL); err != nil {
		return fmt.Errorf("db.ExecContext(create kv_entries) > %w", err)
	}
	return nil
}

// OpenSQLiteStore opens or creates a SQLite database at path.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db.ExecContext(%s) > %w", pragma, err)
		}
	}

	store := &SQLStore{
		db:        db,
		schemaSQL: sqliteSchemaSQL,
		upsertSQL: sqliteUpsertSQL,
		isQuota:   isSQLiteQuotaError,
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, selectEntrySQL, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, s.classify(fmt.Errorf("db.GetContext(kv_entries) > %w", err))
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.upsertSQL, key, value); err != nil {
		return s.classify(fmt.Errorf("db.ExecContext(upsert kv_entries) > %w", err))
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) classify(err error) error {
	if s.isQuota(err) {
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	}
	var opErr *net.OpError
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &opErr) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

func isMySQLQuotaError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrTableFull
}

func isSQLiteQuotaError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrFull
}
