// Package preview renders sign markup on a terminal so a line can be
// checked without the sign attached.
package preview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/ticker/internal/markup"
)

// Hex converts a sign color code to a terminal color. Each digit 0-3 maps
// to the intensities 00, 40, 80, C0.
func Hex(c markup.Color) lipgloss.Color {
	levels := [...]string{"00", "40", "80", "C0"}
	var b strings.Builder
	b.WriteByte('#')
	for _, r := range string(c) {
		b.WriteString(levels[r-'0'])
	}
	return lipgloss.Color(b.String())
}

var arrows = map[string]string{
	"uparrow":    "↑",
	"downarrow":  "↓",
	"leftarrow":  "←",
	"rightarrow": "→",
}

type state struct {
	fg, shadow markup.Color
	inShadow   bool
	wide       bool
	small      bool
	blink      bool
}

func (s state) style() lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(Hex(s.fg))
	if s.inShadow {
		st = st.Bold(true).Background(Hex(s.shadow))
	}
	if s.wide {
		st = st.Bold(true)
	}
	if s.small {
		st = st.Faint(true)
	}
	if s.blink {
		st = st.Blink(true)
	}
	return st
}

// Render draws a markup line using terminal colors. Wide text is spaced out,
// shadow text gets the shadow color as background. Speed and alignment tags
// have no terminal equivalent and are dropped.
func Render(line string) string {
	s := state{fg: "333", shadow: "000"}
	var out strings.Builder

	for _, tok := range markup.Tokenize(line) {
		switch tok.Kind {
		case markup.FgColor:
			s.fg = markup.Color(tok.Value)
		case markup.ShadowColorSwitch:
			s.shadow = markup.Color(tok.Value)
		case markup.Entity:
			out.WriteString(s.style().Render(arrows[tok.Value]))
		case markup.Tag:
			switch tok.Value {
			case "shadow":
				s.inShadow = true
			case "/shadow":
				s.inShadow = false
			case "wide", "dblwide":
				s.wide = true
			case "/wide", "/dblwide":
				s.wide = false
			case "small":
				s.small = true
			case "normal":
				s.small = false
			case "blink":
				s.blink = true
			case "/blink":
				s.blink = false
			case "br":
				out.WriteString("\n")
			}
		case markup.Text:
			text := tok.Value
			if s.wide {
				text = spaced(text)
			}
			out.WriteString(s.style().Render(text))
		}
	}
	return out.String()
}

func spaced(s string) string {
	runes := []rune(s)
	parts := make([]string, len(runes))
	for i, r := range runes {
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

// Plain strips all markup, keeping only the text a reader would see.
func Plain(line string) string {
	var out strings.Builder
	for _, tok := range markup.Tokenize(line) {
		switch tok.Kind {
		case markup.Text:
			out.WriteString(tok.Value)
		case markup.Entity:
			out.WriteString(arrows[tok.Value])
		case markup.Tag:
			if tok.Value == "br" {
				out.WriteString("\n")
			}
		}
	}
	return out.String()
}
