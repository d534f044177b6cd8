package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matheuskafuri/ticker/internal/apperr"
	"github.com/matheuskafuri/ticker/internal/countdown"
	"github.com/matheuskafuri/ticker/internal/datebook"
	"github.com/matheuskafuri/ticker/internal/feed"
	"github.com/matheuskafuri/ticker/internal/stock"
	"github.com/matheuskafuri/ticker/internal/weather"
	"github.com/spf13/cobra"
)

var rssCmd = &cobra.Command{
	Use:   "rss <feed|url>",
	Short: "Print a random entry of an RSS or Atom feed",
	Long: `Print one random entry of a feed as a shadowed headline followed by its text.

The argument is a feed name from the config (rss.feeds) or an http(s) URL.`,
	Args: exactArgs(1),
	RunE: runRSS,
}

func runRSS(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	feedURL, source, err := feed.Resolve(args[0], e.cfg.RSS.Feeds)
	if err != nil {
		return fmt.Errorf("%w (feeds: %s)", err, strings.Join(e.cfg.FeedNames(), ", "))
	}

	data, err := e.gate.Get(cmd.Context(), cacheKey(cmd, source), e.cfg.RSSTTL(), func(ctx context.Context) ([]byte, error) {
		return e.http.Get(ctx, feedURL)
	})
	if err != nil {
		return err
	}

	items, err := feed.Parse(data, e.cfg.RSS.MaxChars)
	if err != nil {
		return err
	}
	e.println(feed.Format(feed.Pick(items, e.rng), e.cfg.Palette.Pick(e.rng)))
	return nil
}

var weatherCmd = &cobra.Command{
	Use:   "weather <zip>",
	Short: "Print the forecast for a US zip code",
	Long: `Print a multi-day forecast from the NDFD SOAP service: highs, lows and the
daytime conditions of each day.

The zip code's coordinates are cached permanently; the forecast is cached for
weather.ttl.`,
	Args: exactArgs(1),
	RunE: runWeather,
}

func runWeather(cmd *cobra.Command, args []string) error {
	zip := strings.TrimSpace(args[0])
	if zip == "" {
		return apperr.Argumentf("zip code is empty")
	}

	e, err := newEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	svc := &weather.Service{Client: e.http, Endpoint: e.cfg.Weather.Endpoint, Namespace: e.cfg.Weather.Namespace}
	ctx := cmd.Context()

	latlon, err := e.gate.Get(ctx, cacheKey(cmd, "latlon."+zip), 0, func(ctx context.Context) ([]byte, error) {
		payload, err := svc.LatLon(ctx, zip)
		if err != nil {
			return nil, err
		}
		// Unknown zip codes must not be cached for good.
		if _, _, err := weather.ParseLatLon(payload); err != nil {
			return nil, err
		}
		return payload, nil
	})
	if err != nil {
		return err
	}
	lat, lon, err := weather.ParseLatLon(latlon)
	if err != nil {
		return err
	}

	now := time.Now()
	data, err := e.gate.Get(ctx, cacheKey(cmd, zip), e.cfg.WeatherTTL(), func(ctx context.Context) ([]byte, error) {
		return svc.Forecast(ctx, lat, lon, now, e.cfg.Weather.Days)
	})
	if err != nil {
		return err
	}

	f, err := weather.Parse(data, now, e.cfg.Weather.NightHour)
	if err != nil {
		return err
	}
	c := e.cfg.Weather.Colors
	line, err := weather.Format(f, weather.Colors{Day: c.Day, Night: c.Night, Plain: c.Plain})
	if err != nil {
		return err
	}
	e.println(line)
	return nil
}

var stockCmd = &cobra.Command{
	Use:   "stock <category>",
	Short: "Print quotes for a category of stock symbols",
	Long: `Print the price and percent change of every symbol in a category from the
config (stock.categories), e.g. index, intlindex, treasuries, bignames.`,
	Args: exactArgs(1),
	RunE: runStock,
}

func runStock(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	key := args[0]
	cat, ok := e.cfg.Stock.Categories[key]
	if !ok {
		return apperr.Argumentf("unknown category %q (categories: %s)", key, strings.Join(e.cfg.StockCategoryKeys(), ", "))
	}

	queryURL, err := stock.QueryURL(e.cfg.Stock.Endpoint, cat.Symbols)
	if err != nil {
		return err
	}
	data, err := e.gate.Get(cmd.Context(), cacheKey(cmd, key), e.cfg.StockTTL(), func(ctx context.Context) ([]byte, error) {
		return e.http.Get(ctx, queryURL)
	})
	if err != nil {
		return err
	}

	rows, err := stock.Parse(data)
	if err != nil {
		return err
	}
	c := e.cfg.Stock.Colors
	line, skipped, err := stock.Format(cat.Name, cat.Symbols, rows, stock.Colors{Up: c.Up, Down: c.Down, Plain: c.Plain}, e.cfg.Stock.Range)
	if len(skipped) > 0 {
		e.log.Warn().Strs("symbols", skipped).Msg("no usable quote")
	}
	if err != nil {
		return err
	}
	e.println(line)
	return nil
}

var datebookCmd = &cobra.Command{
	Use:   "datebook",
	Short: "Print today's datebook items",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		data, err := e.gate.Get(cmd.Context(), cacheKey(cmd, ""), e.cfg.DatebookTTL(), func(ctx context.Context) ([]byte, error) {
			return e.http.Get(ctx, e.cfg.Datebook.URL)
		})
		if err != nil {
			return err
		}

		d, err := datebook.Parse(data)
		if err != nil {
			return err
		}
		line := datebook.Format(d, e.cfg.Palette.Pick(e.rng))
		if line == "" {
			e.log.Info().Msg("no datebook items")
			return nil
		}
		e.println(line)
		return nil
	},
}

var countdownCmd = &cobra.Command{
	Use:   "countdown",
	Short: "Print the time until each show's next episode",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		data, err := e.gate.Get(cmd.Context(), cacheKey(cmd, ""), e.cfg.CountdownTTL(), func(ctx context.Context) ([]byte, error) {
			return e.http.Get(ctx, e.cfg.Countdown.URL)
		})
		if err != nil {
			return err
		}

		shows, err := countdown.Parse(data)
		if err != nil {
			return err
		}
		e.println(countdown.Format(shows, time.Now(), e.cfg.Palette.PickBody(e.rng)))
		return nil
	},
}
