package weather

import (
	"strings"

	"github.com/matheuskafuri/ticker/internal/apperr"
	"github.com/matheuskafuri/ticker/internal/markup"
)

type Colors struct {
	Day   markup.Color // daytime highs
	Night markup.Color // overnight lows
	Plain markup.Color
}

// Condition describes a period's weather, prefixed by the precipitation
// chance when the description is a detailed one.
func (f *Forecast) Condition(p Period) string {
	s, ok := f.Summaries[p]
	if !ok {
		return ""
	}
	if pct, ok := f.Precip[p]; ok && s.FromValue {
		return pct + "% " + s.Text
	}
	return s.Text
}

// Format renders one record per day that has a temperature, e.g.
// "Today: 72F/55F 20% Rain Showers". Only daytime conditions are shown.
func Format(f *Forecast, c Colors) (string, error) {
	var records []string
	for _, day := range f.Days {
		dayP, nightP := Period{Day: day}, Period{Day: day, Night: true}
		high, hasHigh := f.Temps[dayP]
		low, hasLow := f.Temps[nightP]
		if !hasHigh && !hasLow {
			continue
		}

		var b strings.Builder
		b.WriteString(day + ": ")
		if hasHigh {
			b.WriteString(markup.Fg(c.Day) + high + "F" + markup.Fg(c.Plain))
		}
		if hasLow {
			if hasHigh {
				b.WriteString("/")
			}
			b.WriteString(markup.Fg(c.Night) + low + "F" + markup.Fg(c.Plain))
		}
		if cond := f.Condition(dayP); cond != "" {
			b.WriteString(" " + cond)
		}
		records = append(records, b.String())
	}
	if len(records) == 0 {
		return "", apperr.Parsef("forecast", "no periods with a temperature")
	}
	return markup.Fg(c.Plain) + markup.Join(records), nil
}
