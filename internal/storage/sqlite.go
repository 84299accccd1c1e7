package storage

import (
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteBackend persists payloads in a single key-value table.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens sqlite with sensible defaults.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	return &SQLiteBackend{db: db}, nil
}

// Migrate applies all up migrations found at migrationsPath.
func (b *SQLiteBackend) Migrate(migrationsPath string) error {
	driver, err := sqlitemigrate.WithInstance(b.db, &sqlitemigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite3", driver,
	)
	if err != nil {
		return err
	}
	err = m.Up()
	if err == migrate.ErrNoChange {
		return nil
	}
	return err
}

func (b *SQLiteBackend) Close() error { return b.db.Close() }

func (b *SQLiteBackend) Load(kind Kind) ([]byte, bool, error) {
	var data []byte
	err := b.db.QueryRow(`SELECT data FROM blobs WHERE kind = ?`, string(kind)).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", kind, err)
	}
	return data, true, nil
}

func (b *SQLiteBackend) Save(kind Kind, data []byte) error {
	_, err := b.db.Exec(`
	INSERT INTO blobs(kind, data, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(kind) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP;
	`, string(kind), data)
	if err != nil {
		return fmt.Errorf("save %s: %w", kind, err)
	}
	return nil
}
