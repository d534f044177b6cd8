package cache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	db, err := OpenSQLite(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testFiles(t *testing.T) *FileStore {
	t.Helper()
	fs, err := OpenFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("opening file store: %v", err)
	}
	return fs
}

// stores runs fn against every Store implementation.
func stores(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("file", func(t *testing.T) { fn(t, testFiles(t)) })
	t.Run("sqlite", func(t *testing.T) { fn(t, testDB(t)) })
}

func TestLoadMissing(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		_, err := s.Load("ticker-rss.cache.cnn")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSaveAndLoad(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		at := time.Date(2009, 5, 28, 12, 0, 0, 0, time.UTC)
		if err := s.Save("ticker-stock.cache.index", []byte("GOOG,500"), at); err != nil {
			t.Fatalf("save: %v", err)
		}

		got, err := s.Load("ticker-stock.cache.index")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if !bytes.Equal(got.Data, []byte("GOOG,500")) {
			t.Errorf("unexpected data %q", got.Data)
		}
		if !got.FetchedAt.Equal(at) {
			t.Errorf("expected fetched_at %v, got %v", at, got.FetchedAt)
		}
	})
}

func TestSaveOverwrites(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		now := time.Now()
		if err := s.Save("k.cache", []byte("old"), now.Add(-time.Hour)); err != nil {
			t.Fatalf("first save: %v", err)
		}
		if err := s.Save("k.cache", []byte("new"), now); err != nil {
			t.Fatalf("second save: %v", err)
		}
		got, err := s.Load("k.cache")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if string(got.Data) != "new" {
			t.Errorf("expected overwritten data, got %q", got.Data)
		}
	})
}

func TestPruneDeletesOldEntries(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		now := time.Now()
		s.Save("a.cache.old", []byte("x"), now.Add(-48*time.Hour))
		s.Save("a.cache.new", []byte("y"), now)

		deleted, err := s.Prune(now.Add(-24 * time.Hour))
		if err != nil {
			t.Fatalf("prune: %v", err)
		}
		if deleted != 1 {
			t.Errorf("expected 1 deleted, got %d", deleted)
		}
		if _, err := s.Load("a.cache.old"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected old entry gone, got %v", err)
		}
		if _, err := s.Load("a.cache.new"); err != nil {
			t.Errorf("expected new entry kept, got %v", err)
		}
	})
}

func TestStats(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		now := time.Now()
		s.Save("a.cache.one", []byte("1234"), now)
		s.Save("a.cache.two", []byte("56"), now)

		st, err := s.Stats()
		if err != nil {
			t.Fatalf("stats: %v", err)
		}
		if st.Entries != 2 {
			t.Errorf("expected 2 entries, got %d", st.Entries)
		}
		if st.Bytes != 6 {
			t.Errorf("expected 6 bytes, got %d", st.Bytes)
		}
	})
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs, err := OpenFileStore(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := fs.Save("ticker-datebook.cache", []byte("<html/>"), time.Now()); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "ticker-datebook.cache" {
		t.Errorf("unexpected files in cache dir: %v", entries)
	}
}

func TestOpenCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deeper")
	db, err := OpenSQLite(filepath.Join(dir, "ticker.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected dir to be created: %v", err)
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		program, source, want string
	}{
		{"ticker-rss", "cnn", "ticker-rss.cache.cnn"},
		{"ticker-rss", "feeds.example.com", "ticker-rss.cache.feeds.example.com"},
		{"ticker-weather", "latlon.02139", "ticker-weather.cache.latlon.02139"},
		{"ticker-datebook", "", "ticker-datebook.cache"},
		{"ticker-rss", "a/b:c", "ticker-rss.cache.a_b_c"},
	}
	for _, tt := range tests {
		if got := Key(tt.program, tt.source); got != tt.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tt.program, tt.source, got, tt.want)
		}
	}
}
