package history

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
    name TEXT PRIMARY KEY,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS blobs (
    collection TEXT NOT NULL,
    name TEXT NOT NULL,
    content BLOB NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (collection, name),
    FOREIGN KEY (collection) REFERENCES collections(name) ON DELETE CASCADE
);`

// SQLiteStore keeps all collections in a single database file.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) EnsureCollection(ctx context.Context, collection string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO collections (name) VALUES (?)`, collection)
	return err
}

func (s *SQLiteStore) Write(ctx context.Context, collection, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO blobs (collection, name, content, updated_at)
        VALUES (?, ?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT (collection, name)
        DO UPDATE SET content = excluded.content, updated_at = CURRENT_TIMESTAMP`,
		collection, name, data)
	return err
}

func (s *SQLiteStore) Read(ctx context.Context, collection, name string) ([]byte, error) {
	var content []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM blobs WHERE collection = ? AND name = ?`,
		collection, name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotExist
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, name string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM blobs WHERE collection = ? AND name = ?`, collection, name)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errNotExist
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, collection string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM blobs WHERE collection = ? ORDER BY name`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
