// Package markup builds the in-band formatting tags understood by the sign:
// color switches, shadow color switches, shadow/wide text and arrow entities.
package markup

import (
	"fmt"
	"strings"
)

// Color is a sign color code: three digits R, G, B each in 0-3 (e.g. "120").
type Color string

// Validate checks that c is a well-formed color code.
func (c Color) Validate() error {
	if len(c) != 3 {
		return fmt.Errorf("color %q: want 3 digits", string(c))
	}
	for _, r := range c {
		if r < '0' || r > '3' {
			return fmt.Errorf("color %q: digits must be 0-3", string(c))
		}
	}
	return nil
}

const (
	UpArrow    = "&uparrow;"
	DownArrow  = "&downarrow;"
	LeftArrow  = "&leftarrow;"
	RightArrow = "&rightarrow;"

	Small  = "<small>"
	Normal = "<normal>"

	// Divider separates records on one line.
	Divider = ", "
)

// Fg switches the foreground color.
func Fg(c Color) string { return "<color" + string(c) + ">" }

// ShadowColor switches the color used by <shadow> text.
func ShadowColor(c Color) string { return "<scolor" + string(c) + ">" }

// Shadow wraps s in shadow tags.
func Shadow(s string) string { return "<shadow>" + s + "</shadow>" }

// Wide wraps s in wide-text tags.
func Wide(s string) string { return "<wide>" + s + "</wide>" }

// Join joins records with the divider. Empty records are dropped so the
// result never carries a leading or trailing divider.
func Join(records []string) string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		if r != "" {
			out = append(out, r)
		}
	}
	return strings.Join(out, Divider)
}
