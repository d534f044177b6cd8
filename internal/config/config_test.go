package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if len(cfg.Palette) != 6 {
		t.Errorf("expected 6 palette pairs, got %d", len(cfg.Palette))
	}
	if len(cfg.RSS.Feeds) == 0 {
		t.Error("expected default feeds")
	}
	if cfg.Weather.NightHour != 16 {
		t.Errorf("expected night hour 16, got %d", cfg.Weather.NightHour)
	}
	if err := validate(cfg); err != nil {
		t.Errorf("embedded defaults should validate: %v", err)
	}
}

func TestDefaultPaletteMatchesPairs(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Palette[0].Headline != "102" || cfg.Palette[0].Body != "002" {
		t.Errorf("unexpected first pair %+v", cfg.Palette[0])
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
		err   bool
	}{
		{"30m", 30 * time.Minute, false},
		{"3h", 3 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"", 0, false},
		{"0", 0, false},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("ParseDuration(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDuration(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTTLFallbacks(t *testing.T) {
	cfg := &Config{}
	if got := cfg.RSSTTL(); got != 0 {
		t.Errorf("empty ttl should mean permanent, got %v", got)
	}
	cfg.Stock.TTL = "invalid"
	if got := cfg.StockTTL(); got != 30*time.Minute {
		t.Errorf("expected 30m fallback, got %v", got)
	}
	cfg.Countdown.TTL = "2d"
	if got := cfg.CountdownTTL(); got != 48*time.Hour {
		t.Errorf("expected 48h, got %v", got)
	}
	if got := cfg.HTTPTimeout(); got != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", got)
	}
}

func TestFeedNamesSorted(t *testing.T) {
	cfg := &Config{RSS: RSSConfig{Feeds: map[string]string{"reuters": "x", "cnn": "y", "msnbc": "z"}}}
	names := cfg.FeedNames()
	want := []string{"cnn", "msnbc", "reuters"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("FeedNames() = %v, want %v", names, want)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("TICKER_CACHE_DIR", "")
	t.Setenv("TICKER_LOG_LEVEL", "")
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := `log_level: debug
rss:
  feeds:
    local: https://example.com/feed
stock:
  ttl: 5m
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", cfg.LogLevel)
	}
	if cfg.RSS.Feeds["local"] != "https://example.com/feed" {
		t.Error("expected user feed to be present")
	}
	// Default feeds should be merged in
	if _, ok := cfg.RSS.Feeds["cnn"]; !ok {
		t.Error("expected default feeds to be kept")
	}
	if cfg.StockTTL() != 5*time.Minute {
		t.Errorf("expected 5m stock ttl, got %v", cfg.StockTTL())
	}
	if len(cfg.Stock.Categories) == 0 {
		t.Error("expected default stock categories")
	}
}

func TestLoadNonexistentWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Palette) == 0 {
		t.Error("expected default palette when config doesn't exist")
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("expected defaults written to %s: %v", cfgPath, err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TICKER_CACHE_DIR", "/tmp/ticker-cache")
	t.Setenv("TICKER_LOG_LEVEL", "info")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CacheDir() != "/tmp/ticker-cache" {
		t.Errorf("expected cache dir override, got %s", cfg.CacheDir())
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level override, got %s", cfg.LogLevel)
	}
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestValidateInvalidFeedScheme(t *testing.T) {
	cfg := validConfig(t)
	cfg.RSS.Feeds["bad"] = "file:///etc/passwd"
	if err := validate(cfg); err == nil {
		t.Error("expected error for file:// URL scheme")
	}
}

func TestValidateBadPaletteColor(t *testing.T) {
	cfg := validConfig(t)
	cfg.Palette[2].Body = "400"
	if err := validate(cfg); err == nil {
		t.Error("expected error for out-of-range color digit")
	}
}

func TestValidateUnknownBackend(t *testing.T) {
	cfg := validConfig(t)
	cfg.Cache.Backend = "redis"
	if err := validate(cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestValidateNightHour(t *testing.T) {
	cfg := validConfig(t)
	cfg.Weather.NightHour = 24
	if err := validate(cfg); err == nil {
		t.Error("expected error for night hour 24")
	}
}

func TestValidateEmptyCategory(t *testing.T) {
	cfg := validConfig(t)
	cfg.Stock.Categories["empty"] = StockCategory{Name: "Empty"}
	if err := validate(cfg); err == nil {
		t.Error("expected error for category without symbols")
	}
}
