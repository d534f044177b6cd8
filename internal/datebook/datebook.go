// Package datebook extracts the daily datebook (a title and a list of
// items) from the show rundown page.
package datebook

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matheuskafuri/ticker/internal/apperr"
	"github.com/matheuskafuri/ticker/internal/markup"
	"golang.org/x/net/html"
)

// ContainerID is the id of the div holding the datebook.
const ContainerID = "datebook"

// Bullet separates items on the sign.
const Bullet = " " + markup.RightArrow + " "

type Datebook struct {
	Title string
	Items []string
}

type state int

const (
	outside state = iota
	inContainer
	inTitle
	inItem
)

// parser walks tokens of
//
//	<div id=datebook><h3>TITLE</h3><ul><li>ITEM</li>...</ul></div>
//
// Only the first container is read.
type parser struct {
	state state
	depth int // open divs inside the container, the container included
	title strings.Builder
	item  strings.Builder
	out   Datebook
	done  bool
}

// Parse reads the datebook out of an HTML page. A page without the
// container yields an empty Datebook.
func Parse(data []byte) (*Datebook, error) {
	p := &parser{}
	z := html.NewTokenizer(bytes.NewReader(data))
	for !p.done {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				p.done = true
				continue
			}
			return nil, &apperr.ParseError{Source: "datebook", Err: z.Err()}
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			p.start(string(name), hasAttr, z)
		case html.EndTagToken:
			name, _ := z.TagName()
			p.end(string(name))
		case html.TextToken:
			p.text(string(z.Text()))
		}
	}
	p.out.Title = collapse(p.title.String())
	return &p.out, nil
}

func (p *parser) start(name string, hasAttr bool, z *html.Tokenizer) {
	switch p.state {
	case outside:
		if name == "div" && hasAttr && idOf(z) == ContainerID {
			p.state = inContainer
			p.depth = 1
		}
	case inContainer:
		switch name {
		case "div":
			p.depth++
		case "h3":
			p.state = inTitle
			p.title.Reset()
		case "li":
			p.state = inItem
			p.item.Reset()
		}
	case inTitle, inItem:
		switch name {
		case "div":
			p.depth++
		case "li":
			// unclosed <li>
			p.flush()
			p.state = inItem
			p.item.Reset()
		}
	}
}

func (p *parser) end(name string) {
	switch {
	case p.state == outside:
	case name == "div":
		p.depth--
		if p.depth == 0 {
			p.flush()
			p.state = outside
			p.done = true
		}
	case name == "h3" && p.state == inTitle:
		p.state = inContainer
	case (name == "li" || name == "ul") && p.state == inItem:
		p.flush()
		p.state = inContainer
	}
}

func (p *parser) text(s string) {
	switch p.state {
	case inTitle:
		p.title.WriteString(s)
	case inItem:
		p.item.WriteString(s)
	}
}

func (p *parser) flush() {
	if p.state != inItem {
		return
	}
	if item := cleanItem(p.item.String()); item != "" {
		p.out.Items = append(p.out.Items, item)
	}
	p.item.Reset()
}

func idOf(z *html.Tokenizer) string {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "id" {
			return string(val)
		}
		if !more {
			return ""
		}
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanItem drops a leading "and " and capitalizes the first letter.
func cleanItem(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if len(s) >= 4 && strings.EqualFold(s[:4], "and ") {
		s = s[4:]
	}
	s = collapse(s)
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Format renders the datebook as a shadowed title followed by its items.
// It returns "" when there are no items.
func Format(d *Datebook, colors markup.Pair) string {
	if len(d.Items) == 0 {
		return ""
	}
	return markup.Fg(colors.Headline) +
		markup.ShadowColor(colors.Body) +
		markup.Shadow(d.Title) +
		markup.Fg(colors.Body) +
		Bullet + strings.Join(d.Items, Bullet)
}
