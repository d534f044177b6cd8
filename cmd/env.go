package cmd

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/matheuskafuri/ticker/internal/cache"
	"github.com/matheuskafuri/ticker/internal/config"
	"github.com/matheuskafuri/ticker/internal/fetch"
	"github.com/matheuskafuri/ticker/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// env is what a source command needs for one run.
type env struct {
	cfg   *config.Config
	log   zerolog.Logger
	store cache.Store // nil unless opened with the cache
	gate  *cache.Gate
	http  *fetch.Client
	rng   *rand.Rand
	out   io.Writer
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("loading config: %w", err)
	}
	level := cfg.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	log := logging.New(logging.Config{Level: level, Pretty: true})
	return cfg, log, nil
}

func openStore(cfg *config.Config) (cache.Store, error) {
	if cfg.Cache.Backend == "sqlite" {
		return cache.OpenSQLite(cfg.CacheDBPath())
	}
	return cache.OpenFileStore(cfg.CacheDir())
}

// newEnv loads config and builds the logger and random source. withCache
// also opens the cache store and the HTTP client.
func newEnv(cmd *cobra.Command, withCache bool) (*env, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	e := &env{
		cfg: cfg,
		log: log.With().Str("cmd", cmd.Name()).Logger(),
		rng: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		out: cmd.OutOrStdout(),
	}
	if !withCache {
		return e, nil
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	e.store = store
	e.gate = cache.NewGate(store, e.log)
	e.gate.StaleFallback = cfg.Cache.StaleFallback || flagStaleOK
	e.http = fetch.NewClient(cfg.HTTPTimeout(), cfg.HTTP.UserAgent, e.log)
	return e, nil
}

func (e *env) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.log.Warn().Err(err).Msg("closing cache")
		}
	}
}

// cacheKey scopes source to the running subcommand, e.g. "ticker-rss.cache.cnn".
func cacheKey(cmd *cobra.Command, source string) string {
	return cache.Key("ticker-"+cmd.Name(), source)
}

// println writes the finished sign line.
func (e *env) println(line string) {
	fmt.Fprintln(e.out, line)
}
