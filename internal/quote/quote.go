// Package quote prints a line from a local quotes file or from the
// fortune program.
package quote

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/matheuskafuri/ticker/internal/apperr"
	"github.com/matheuskafuri/ticker/internal/markup"
)

// ReadLines returns the non-blank lines of r, trimmed.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

// Load reads the quotes file at path.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening quotes file: %w", err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(lines) == 0 {
		return nil, &apperr.ParseError{Source: path, Err: errors.New("no quotes")}
	}
	return lines, nil
}

// Pick chooses one line at random.
func Pick(lines []string, rng *rand.Rand) string {
	return lines[rng.IntN(len(lines))]
}

// Format renders prefix in the headline color and the quote in the body color.
func Format(prefix, line string, colors markup.Pair) string {
	return markup.Fg(colors.Headline) + prefix + markup.Fg(colors.Body) + line
}
