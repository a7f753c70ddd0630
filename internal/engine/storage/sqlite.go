package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps slots in a local sqlite file.
type SQLiteStore struct {
	db    *sql.DB
	owner string
	mu    sync.Mutex
}

func NewSQLiteStore(dbPath, owner string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating db dir")
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening db")
	}
	// One connection so :memory: databases are shared across calls.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "setting pragma %q", p)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, owner: owner}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		owner TEXT NOT NULL,
		key TEXT NOT NULL,
		value BLOB NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (owner, key)
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "creating schema")
	}
	return nil
}

func (s *SQLiteStore) ReadSlot(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM slots WHERE owner = ? AND key = ?", s.owner, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading slot %q", key)
	}
	return value, nil
}

func (s *SQLiteStore) WriteSlot(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (owner, key, value, updated_at) VALUES (?,?,?,?)
		ON CONFLICT(owner, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, s.owner, key, value, time.Now().UTC())
	if err != nil {
		return errors.Wrapf(err, "writing slot %q", key)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
