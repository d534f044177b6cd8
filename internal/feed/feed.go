package feed

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"math/rand/v2"
	"net/url"
	"strings"

	"github.com/matheuskafuri/ticker/internal/apperr"
	"github.com/matheuskafuri/ticker/internal/markup"
	"github.com/mmcdole/gofeed"
)

// Item is the part of a feed entry shown on the sign.
type Item struct {
	Title string
	Text  string
}

// Resolve maps a command-line argument to a feed URL and the source part of
// its cache key: a configured alias keys on its own name, a custom URL on
// its host.
func Resolve(arg string, feeds map[string]string) (feedURL, cacheSource string, err error) {
	if u, ok := feeds[arg]; ok {
		return u, arg, nil
	}
	u, err := url.Parse(arg)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", "", apperr.Argumentf("bad url: %s", arg)
	}
	return arg, u.Host, nil
}

// Parse reads RSS, Atom or JSON feed content.
func Parse(data []byte, maxChars int) ([]Item, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &apperr.ParseError{Source: "feed", Err: err}
	}

	items := make([]Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		desc := it.Description
		if desc == "" {
			desc = it.Content
		}
		item := Item{
			Title: strings.TrimSpace(html.UnescapeString(it.Title)),
			Text:  stripHTML(desc),
		}
		if maxChars > 0 {
			item.Text = truncate(item.Text, maxChars)
		}
		if item.Title == "" && item.Text == "" {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, &apperr.ParseError{Source: "feed", Err: errors.New("feed has no entries")}
	}
	return items, nil
}

// Pick chooses one item at random.
func Pick(items []Item, rng *rand.Rand) Item {
	return items[rng.IntN(len(items))]
}

// Format renders an item as a shadowed headline followed by its text.
func Format(item Item, colors markup.Pair) string {
	return fmt.Sprintf("%s%s%s: %s%s",
		markup.Fg(colors.Headline),
		markup.ShadowColor(colors.Body),
		markup.Shadow(item.Title),
		markup.Fg(colors.Body),
		item.Text)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(html.UnescapeString(b.String())), " ")
}
