package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteBacking stores the document as a single row in a SQLite database.
// The dbPath can be a file path or ":memory:" for an in-memory database.
type SQLiteBacking struct {
	db *sql.DB
}

// NewSQLiteBacking opens (or creates) the database at dbPath and initializes
// the schema if it does not exist.
func NewSQLiteBacking(dbPath string) (*SQLiteBacking, error) {
	db, err := sql.Open(driverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	b := &SQLiteBacking{db: db}
	if err := b.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return b, nil
}

// initSchema creates the single-row document table if it does not exist.
func (b *SQLiteBacking) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS document (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := b.db.Exec(schema)
	return err
}

// Load returns the stored document, or (nil, nil) when no row exists yet.
func (b *SQLiteBacking) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := b.db.QueryRowContext(ctx, "SELECT data FROM document WHERE id = 1").Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return data, nil
}

// Save upserts the single document row.
func (b *SQLiteBacking) Save(ctx context.Context, data []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO document (id, data, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		data)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// DB returns the underlying database connection for advanced operations.
func (b *SQLiteBacking) DB() *sql.DB {
	return b.db
}

// Close closes the database connection.
func (b *SQLiteBacking) Close() error {
	return b.db.Close()
}
