// Package countdown reads the show countdown page and describes how long
// until each show's next episode.
package countdown

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/matheuskafuri/ticker/internal/apperr"
	"github.com/matheuskafuri/ticker/internal/markup"
	"golang.org/x/net/html"
)

// TimeLayout is the format of airing times on the page.
const TimeLayout = "2006-01-02 15:04:05 GMT-07:00"

// NoData is printed when no show could be matched with a time.
const NoData = "No countdown data found."

const (
	airingPrefix = "An episode of "
	airingSuffix = " is currently airing!"
)

// Show is a show name matched with the text of its time span.
type Show struct {
	ID    string
	Name  string
	Label string
}

// Parse matches <meta scheme=ID content="An episode of NAME is currently
// airing!"> names with <span id=ID>LABEL</span> texts. Ids found on only one
// side are dropped. Shows come out in the document order of their names.
func Parse(data []byte) ([]Show, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &apperr.ParseError{Source: "countdown", Err: err}
	}

	var (
		ids    []string
		names  = make(map[string]string)
		labels = make(map[string]string)
	)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				id := getAttr(n, "scheme")
				content := getAttr(n, "content")
				if id != "" && strings.HasPrefix(content, airingPrefix) && strings.HasSuffix(content, airingSuffix) {
					name := content[len(airingPrefix) : len(content)-len(airingSuffix)]
					if name != "" {
						if _, seen := names[id]; !seen {
							ids = append(ids, id)
						}
						names[id] = name
					}
				}
			case "span":
				if id := getAttr(n, "id"); id != "" {
					if text := textOf(n); text != "" {
						labels[id] = text
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var shows []Show
	for _, id := range ids {
		label, ok := labels[id]
		if !ok {
			continue
		}
		shows = append(shows, Show{ID: id, Name: names[id], Label: label})
	}
	return shows, nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Describe turns a span label into what the sign shows: a countdown for an
// airing time, "Now" while a show is on, or the text itself otherwise.
func Describe(label string, now time.Time) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	if at, err := time.Parse(TimeLayout, label); err == nil {
		return Until(at, now)
	}
	if isNow(label) {
		return "Now"
	}
	return label
}

func isNow(s string) bool {
	s = strings.ToLower(strings.Trim(s, " !.*"))
	switch s {
	case "now", "on now", "airing now", "now airing", "now showing":
		return true
	}
	return strings.HasPrefix(s, "now ")
}

// Until formats the time left before at. Counts are truncated toward zero.
func Until(at, now time.Time) string {
	hours := at.Sub(now).Hours()
	days := hours / 24
	switch {
	case days > -1 && days < 1:
		return fmt.Sprintf("%d hours", int(hours))
	case days >= 1 && days < 2:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", int(days))
	}
}

// Format renders every show as "Next NAME: <wide>WHEN</wide>" in color, or
// the NoData line when there is nothing to show.
func Format(shows []Show, now time.Time, color markup.Color) string {
	var records []string
	for _, s := range shows {
		when := Describe(s.Label, now)
		if when == "" {
			continue
		}
		records = append(records, "Next "+s.Name+": "+markup.Wide(when))
	}
	if len(records) == 0 {
		return markup.Fg(color) + NoData
	}
	return markup.Fg(color) + markup.Join(records)
}
