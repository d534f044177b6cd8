package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps every entry as a row of a single sqlite database.
type SQLiteStore struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	s := &SQLiteStore{writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}

	// The read handle is opened after the schema exists; a read-only
	// connection cannot create the file.
	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}
	s.readDB = readDB
	return s, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			key        TEXT PRIMARY KEY,
			body       BLOB NOT NULL,
			fetched_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_entries_fetched_at ON entries(fetched_at);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

func (s *SQLiteStore) Load(key string) (Entry, error) {
	var (
		e  = Entry{Key: key}
		ns int64
	)
	err := s.readDB.QueryRow("SELECT body, fetched_at FROM entries WHERE key = ?", key).Scan(&e.Data, &ns)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("loading %s: %w", key, err)
	}
	e.FetchedAt = time.Unix(0, ns)
	return e, nil
}

func (s *SQLiteStore) Save(key string, data []byte, at time.Time) error {
	_, err := s.writeDB.Exec(`
		INSERT INTO entries (key, body, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			body = excluded.body,
			fetched_at = excluded.fetched_at
	`, key, data, at.UnixNano())
	if err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Stats() (Stats, error) {
	var st Stats
	err := s.readDB.QueryRow("SELECT COUNT(*), COALESCE(SUM(LENGTH(body)), 0) FROM entries").Scan(&st.Entries, &st.Bytes)
	if err != nil {
		return Stats{}, fmt.Errorf("reading stats: %w", err)
	}
	return st, nil
}

func (s *SQLiteStore) Prune(olderThan time.Time) (int, error) {
	res, err := s.writeDB.Exec("DELETE FROM entries WHERE fetched_at < ?", olderThan.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("pruning: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
