package cache

import (
	"context"
	"errors"
	"time"

	"github.com/matheuskafuri/ticker/internal/apperr"
	"github.com/rs/zerolog"
)

// FetchFunc retrieves fresh content for a cache entry.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Gate decides whether a cached entry is fresh enough to use or whether the
// source has to be fetched again.
type Gate struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time

	// StaleFallback serves an expired entry when a refresh fails. Off by
	// default; every fallback is logged.
	StaleFallback bool
}

func NewGate(store Store, log zerolog.Logger) *Gate {
	return &Gate{store: store, log: log, now: time.Now}
}

// WithClock replaces the gate's time source.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

// Fresh reports whether an entry written at fetchedAt can still be served
// at now. A zero ttl never expires.
func Fresh(fetchedAt, now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return true
	}
	return now.Before(fetchedAt.Add(ttl))
}

// Get returns the content for key, calling fetch at most once when the entry
// is missing or older than ttl.
func (g *Gate) Get(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) ([]byte, error) {
	now := g.now()

	entry, err := g.store.Load(key)
	switch {
	case err == nil:
		if Fresh(entry.FetchedAt, now, ttl) {
			g.log.Debug().Str("key", key).Time("fetched_at", entry.FetchedAt).Msg("cache hit")
			return entry.Data, nil
		}
	case errors.Is(err, ErrNotFound):
	default:
		// An unreadable entry is treated like a missing one.
		g.log.Warn().Err(err).Str("key", key).Msg("reading cache entry failed")
	}
	have := err == nil

	data, fetchErr := fetch(ctx)
	if fetchErr == nil {
		if err := g.store.Save(key, data, now); err != nil {
			g.log.Warn().Err(err).Str("key", key).Msg("writing cache entry failed")
		} else {
			g.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("cache refreshed")
		}
		return data, nil
	}

	g.log.Warn().Err(fetchErr).Str("key", key).Msg("refresh failed")
	if !have {
		return nil, &apperr.CacheMissError{Key: key, Err: fetchErr}
	}
	if !g.StaleFallback {
		return nil, fetchErr
	}
	g.log.Warn().Str("key", key).Time("fetched_at", entry.FetchedAt).Msg("serving stale cache entry")
	return entry.Data, nil
}
