package cache

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned by a Store when no entry exists for a key.
var ErrNotFound = errors.New("cache entry not found")

// Entry is the raw content last fetched for a key and when it was written.
type Entry struct {
	Key       string
	Data      []byte
	FetchedAt time.Time
}

type Stats struct {
	Entries int
	Bytes   int64
}

// Store persists one entry per key.
type Store interface {
	Load(key string) (Entry, error)
	Save(key string, data []byte, at time.Time) error
	Stats() (Stats, error)
	Prune(olderThan time.Time) (int, error)
	Close() error
}

// Key derives a cache key scoped to the invoking program, e.g.
// Key("ticker-rss", "cnn") == "ticker-rss.cache.cnn".
func Key(program, source string) string {
	if source == "" {
		return program + ".cache"
	}
	return program + ".cache." + sanitize(source)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
