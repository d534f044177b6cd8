package weather

import (
	"strings"
	"time"
	"unicode"

	"github.com/matheuskafuri/ticker/internal/apperr"
	"github.com/matheuskafuri/ticker/internal/fetch"
)

type dwml struct {
	LatLonList string     `xml:"latLonList"`
	Data       []dwmlData `xml:"data"`
}

type dwmlData struct {
	TimeLayouts   []timeLayout `xml:"time-layout"`
	Temperatures  []valueSet   `xml:"parameters>temperature"`
	Precipitation []valueSet   `xml:"parameters>probability-of-precipitation"`
	Weather       []weatherSet `xml:"parameters>weather"`
}

// <time-layout><layout-key>k-p24h-n4-1</layout-key><start-valid-time>...</start-valid-time>...
type timeLayout struct {
	Key    string   `xml:"layout-key"`
	Starts []string `xml:"start-valid-time"`
}

// <temperature type="maximum" time-layout="k-p24h-n4-1"><value>61</value>...
type valueSet struct {
	Type   string   `xml:"type,attr"`
	Layout string   `xml:"time-layout,attr"`
	Values []string `xml:"value"`
}

type weatherSet struct {
	Layout     string       `xml:"time-layout,attr"`
	Conditions []conditions `xml:"weather-conditions"`
}

// <weather-conditions weather-summary="Chance Rain Showers">
//
//	<value coverage="chance" weather-type="rain showers"/>
type conditions struct {
	Summary string `xml:"weather-summary,attr"`
	Values  []struct {
		WeatherType string `xml:"weather-type,attr"`
	} `xml:"value"`
}

// Summary is a condition description. FromValue is set when it came from a
// detailed <value weather-type>, which is when a precipitation chance is
// worth showing next to it.
type Summary struct {
	Text      string
	FromValue bool
}

// Forecast is a parsed forecast keyed by period.
type Forecast struct {
	Days      []string // in display order
	Temps     map[Period]string
	Precip    map[Period]string
	Summaries map[Period]Summary
}

// Parse reads an NDFD DWML forecast document.
func Parse(payload []byte, now time.Time, nightHour int) (*Forecast, error) {
	var doc dwml
	if err := fetch.DecodeXML(payload, &doc); err != nil {
		return nil, &apperr.ParseError{Source: "forecast", Err: err}
	}
	if len(doc.Data) == 0 {
		return nil, apperr.Parsef("forecast", "no <data> element")
	}
	data := doc.Data[0]

	layouts := make(map[string][]Period)
	for _, tl := range data.TimeLayouts {
		key := strings.TrimSpace(tl.Key)
		if key == "" {
			continue
		}
		for _, raw := range tl.Starts {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return nil, &apperr.ParseError{Source: "forecast", Err: err}
			}
			layouts[key] = append(layouts[key], Classify(ts, now, nightHour))
		}
	}

	period := func(layout string, i int) (Period, error) {
		periods, ok := layouts[layout]
		if !ok {
			return Period{}, apperr.Parsef("forecast", "unknown time layout %q", layout)
		}
		if i >= len(periods) {
			return Period{}, apperr.Parsef("forecast", "value %d beyond time layout %q (%d periods)", i, layout, len(periods))
		}
		return periods[i], nil
	}

	f := &Forecast{
		Temps:     make(map[Period]string),
		Precip:    make(map[Period]string),
		Summaries: make(map[Period]Summary),
	}

	for _, set := range data.Temperatures {
		for i, v := range set.Values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			p, err := period(set.Layout, i)
			if err != nil {
				return nil, err
			}
			f.Temps[p] = v
		}
	}

	for _, set := range data.Precipitation {
		if periods, ok := layouts[set.Layout]; ok {
			// The precipitation layout covers every half day, so it
			// gives the display order.
			for _, p := range periods {
				if n := len(f.Days); n == 0 || f.Days[n-1] != p.Day {
					f.Days = append(f.Days, p.Day)
				}
			}
		}
		for i, v := range set.Values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			p, err := period(set.Layout, i)
			if err != nil {
				return nil, err
			}
			f.Precip[p] = v
		}
	}

	for _, set := range data.Weather {
		for i, c := range set.Conditions {
			var s Summary
			if len(c.Values) > 0 && strings.TrimSpace(c.Values[0].WeatherType) != "" {
				s = Summary{Text: titleCase(c.Values[0].WeatherType), FromValue: true}
			} else {
				s = Summary{Text: strings.TrimSpace(c.Summary)}
			}
			if s.Text == "" {
				continue
			}
			p, err := period(set.Layout, i)
			if err != nil {
				return nil, err
			}
			f.Summaries[p] = s
		}
	}

	if len(f.Days) == 0 {
		f.Days = daysFrom(data.Temperatures, layouts)
	}
	return f, nil
}

// daysFrom orders days by first appearance across the temperature layouts.
func daysFrom(sets []valueSet, layouts map[string][]Period) []string {
	var (
		days []string
		seen = make(map[string]bool)
	)
	for _, set := range sets {
		for _, p := range layouts[set.Layout] {
			if !seen[p.Day] {
				seen[p.Day] = true
				days = append(days, p.Day)
			}
		}
	}
	return days
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
