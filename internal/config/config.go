package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/matheuskafuri/ticker/internal/markup"
	"github.com/matheuskafuri/ticker/internal/stock"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type CacheConfig struct {
	Dir           string `yaml:"dir"`
	Backend       string `yaml:"backend"` // "file" or "sqlite"
	StaleFallback bool   `yaml:"stale_fallback"`
}

type HTTPConfig struct {
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
}

type RSSConfig struct {
	TTL      string            `yaml:"ttl"`
	MaxChars int               `yaml:"max_chars"` // 0 keeps the whole description
	Feeds    map[string]string `yaml:"feeds"`
}

type WeatherColors struct {
	Day   markup.Color `yaml:"day"`
	Night markup.Color `yaml:"night"`
	Plain markup.Color `yaml:"plain"`
}

type WeatherConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	Namespace string        `yaml:"namespace"`
	TTL       string        `yaml:"ttl"`
	Days      int           `yaml:"days"`
	NightHour int           `yaml:"night_hour"`
	Colors    WeatherColors `yaml:"colors"`
}

type StockColors struct {
	Up    markup.Color `yaml:"up"`
	Down  markup.Color `yaml:"down"`
	Plain markup.Color `yaml:"plain"`
}

type StockCategory struct {
	Name    string         `yaml:"name"`
	Symbols []stock.Symbol `yaml:"symbols"`
}

type StockConfig struct {
	Endpoint   string                   `yaml:"endpoint"`
	TTL        string                   `yaml:"ttl"`
	Range      bool                     `yaml:"show_52_week"`
	Colors     StockColors              `yaml:"colors"`
	Categories map[string]StockCategory `yaml:"categories"`
}

// PageConfig describes a source scraped from a single web page.
type PageConfig struct {
	URL string `yaml:"url"`
	TTL string `yaml:"ttl"`
}

type QuoteConfig struct {
	File   string `yaml:"file"`
	Prefix string `yaml:"prefix"`
}

type FortuneConfig struct {
	Command string   `yaml:"command"`
	Sets    []string `yaml:"sets"`
}

type Config struct {
	LogLevel  string         `yaml:"log_level"`
	Cache     CacheConfig    `yaml:"cache"`
	HTTP      HTTPConfig     `yaml:"http"`
	Palette   markup.Palette `yaml:"palette"`
	RSS       RSSConfig      `yaml:"rss"`
	Weather   WeatherConfig  `yaml:"weather"`
	Stock     StockConfig    `yaml:"stock"`
	Datebook  PageConfig     `yaml:"datebook"`
	Countdown PageConfig     `yaml:"countdown"`
	Quote     QuoteConfig    `yaml:"quote"`
	Fortune   FortuneConfig  `yaml:"fortune"`
}

// ParseDuration accepts Go durations plus an "Nd" day suffix. An empty
// string or "0" means zero.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func durationOr(s string, def time.Duration) time.Duration {
	d, err := ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func (c *Config) HTTPTimeout() time.Duration {
	d := durationOr(c.HTTP.Timeout, 30*time.Second)
	if d <= 0 {
		return 30 * time.Second
	}
	return d
}

func (c *Config) RSSTTL() time.Duration       { return durationOr(c.RSS.TTL, 30*time.Minute) }
func (c *Config) WeatherTTL() time.Duration   { return durationOr(c.Weather.TTL, 3*time.Hour) }
func (c *Config) StockTTL() time.Duration     { return durationOr(c.Stock.TTL, 30*time.Minute) }
func (c *Config) DatebookTTL() time.Duration  { return durationOr(c.Datebook.TTL, 3*time.Hour) }
func (c *Config) CountdownTTL() time.Duration { return durationOr(c.Countdown.TTL, 24*time.Hour) }

// FeedNames returns the configured feed aliases, sorted.
func (c *Config) FeedNames() []string {
	names := make([]string, 0, len(c.RSS.Feeds))
	for n := range c.RSS.Feeds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// StockCategoryKeys returns the configured category keys, sorted.
func (c *Config) StockCategoryKeys() []string {
	keys := make([]string, 0, len(c.Stock.Categories))
	for k := range c.Stock.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return filepath.Join(xdg.CacheHome, "ticker")
}

func (c *Config) CacheDBPath() string {
	return filepath.Join(c.CacheDir(), "ticker.db")
}

func (c *Config) QuotePath() string {
	if c.Quote.File != "" {
		return c.Quote.File
	}
	return filepath.Join(xdg.ConfigHome, "ticker", "quotes.txt")
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "ticker", "config.yaml")
}

// LoadEnv reads a .env file from the working directory if there is one.
func LoadEnv() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path on top of the embedded defaults and applies
// TICKER_* environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv("TICKER_CONFIG")
	}
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Write defaults to config path on first run
		_ = writeDefaults(path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TICKER_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("TICKER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", s)
	}
	return nil
}

func validate(cfg *Config) error {
	if err := cfg.Palette.Validate(); err != nil {
		return err
	}

	switch cfg.Cache.Backend {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("cache.backend: unknown backend %q (valid: file, sqlite)", cfg.Cache.Backend)
	}

	for name, u := range cfg.RSS.Feeds {
		if err := validURL(u); err != nil {
			return fmt.Errorf("rss feed %q: %w", name, err)
		}
	}

	urls := map[string]string{
		"weather.endpoint": cfg.Weather.Endpoint,
		"stock.endpoint":   cfg.Stock.Endpoint,
		"datebook.url":     cfg.Datebook.URL,
		"countdown.url":    cfg.Countdown.URL,
	}
	for field, u := range urls {
		if u == "" {
			continue
		}
		if err := validURL(u); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}

	colors := map[string]markup.Color{
		"weather.colors.day":   cfg.Weather.Colors.Day,
		"weather.colors.night": cfg.Weather.Colors.Night,
		"weather.colors.plain": cfg.Weather.Colors.Plain,
		"stock.colors.up":      cfg.Stock.Colors.Up,
		"stock.colors.down":    cfg.Stock.Colors.Down,
		"stock.colors.plain":   cfg.Stock.Colors.Plain,
	}
	for field, c := range colors {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}

	if cfg.Weather.NightHour < 0 || cfg.Weather.NightHour > 23 {
		return fmt.Errorf("weather.night_hour: must be 0-23, got %d", cfg.Weather.NightHour)
	}

	for key, cat := range cfg.Stock.Categories {
		if len(cat.Symbols) == 0 {
			return fmt.Errorf("stock category %q: no symbols", key)
		}
		for i, s := range cat.Symbols {
			if s.Symbol == "" {
				return fmt.Errorf("stock category %q: symbol %d is empty", key, i)
			}
		}
	}
	return nil
}
