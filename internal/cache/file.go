package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore keeps each entry in its own flat file named after the key. The
// file's mtime is the only freshness signal.
type FileStore struct {
	dir string
}

func OpenFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

func (s *FileStore) Load(key string) (Entry, error) {
	p := s.path(key)
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("stat %s: %w", p, err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return Entry{}, fmt.Errorf("reading %s: %w", p, err)
	}
	return Entry{Key: key, Data: data, FetchedAt: info.ModTime()}, nil
}

// Save replaces the entry atomically: readers see either the old file or
// the complete new one.
func (s *FileStore) Save(key string, data []byte, at time.Time) error {
	tmp, err := os.CreateTemp(s.dir, "."+key+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chtimes(tmp.Name(), at, at); err != nil {
		return fmt.Errorf("setting mtime: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path(key), err)
	}
	return nil
}

func (s *FileStore) entries() ([]os.DirEntry, error) {
	all, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing cache dir: %w", err)
	}
	var out []os.DirEntry
	for _, e := range all {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !strings.Contains(e.Name(), ".cache") {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *FileStore) Stats() (Stats, error) {
	entries, err := s.entries()
	if err != nil {
		return Stats{}, err
	}
	var st Stats
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		st.Entries++
		st.Bytes += info.Size()
	}
	return st, nil
}

func (s *FileStore) Prune(olderThan time.Time) (int, error) {
	entries, err := s.entries()
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, e := range entries {
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(olderThan) {
			continue
		}
		if err := os.Remove(s.path(e.Name())); err != nil {
			return deleted, fmt.Errorf("removing %s: %w", e.Name(), err)
		}
		deleted++
	}
	return deleted, nil
}

func (s *FileStore) Close() error { return nil }
