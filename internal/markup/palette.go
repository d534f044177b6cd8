package markup

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Pair is a headline/shadow color with the body color that goes with it.
type Pair struct {
	Headline Color `yaml:"headline"`
	Body     Color `yaml:"body"`
}

// Palette is an ordered set of color pairs.
type Palette []Pair

// Validate checks every color in the palette.
func (p Palette) Validate() error {
	if len(p) == 0 {
		return errors.New("palette is empty")
	}
	for i, pair := range p {
		if err := pair.Headline.Validate(); err != nil {
			return fmt.Errorf("palette[%d].headline: %w", i, err)
		}
		if err := pair.Body.Validate(); err != nil {
			return fmt.Errorf("palette[%d].body: %w", i, err)
		}
	}
	return nil
}

// Pick returns one pair chosen with rng.
func (p Palette) Pick(rng *rand.Rand) Pair {
	return p[rng.IntN(len(p))]
}

// PickBody returns only the body color of a chosen pair, for sources that
// print a single colored line.
func (p Palette) PickBody(rng *rand.Rand) Color {
	return p.Pick(rng).Body
}
