// Package stock reads the quotes CSV endpoint and formats one category of
// symbols as a sign line.
package stock

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/matheuskafuri/ticker/internal/apperr"
	"github.com/matheuskafuri/ticker/internal/markup"
)

// NA fills columns missing from a short row.
const NA = "N/A"

// FieldCodes maps column names to the endpoint's "f=" request codes.
var FieldCodes = map[string]string{
	"1 yr Target Price":       "t8",
	"52-week High":            "k",
	"52-week Low":             "j",
	"52-week Range":           "w",
	"Ask":                     "a",
	"Bid":                     "b",
	"Change":                  "c1",
	"Change & Percent Change": "c",
	"Change in Percent":       "p2",
	"Day's High":              "h",
	"Day's Low":               "g",
	"Day's Range":             "m",
	"Dividend Yield":          "y",
	"Last Trade (Price Only)": "l1",
	"Last Trade Date":         "d1",
	"Last Trade Time":         "t1",
	"Market Capitalization":   "j1",
	"Name":                    "n",
	"Open":                    "o",
	"P/E Ratio":               "r",
	"Previous Close":          "p",
	"Stock Exchange":          "x",
	"Symbol":                  "s",
	"Volume":                  "v",
}

// Columns are requested in this order and read back positionally.
var Columns = []string{
	"Symbol",
	"Name",
	"Change",
	"52-week High",
	"52-week Low",
	"Last Trade (Price Only)",
}

// Symbol is one ticker symbol of a category with its display label.
type Symbol struct {
	Symbol string `yaml:"symbol"`
	Label  string `yaml:"label"`
}

// Row is one CSV row. Columns the endpoint left out hold NA.
type Row struct {
	Symbol string
	Name   string
	Change string
	High   string // 52-week
	Low    string // 52-week
	Price  string
}

type Colors struct {
	Up    markup.Color
	Down  markup.Color
	Plain markup.Color
}

// QueryURL builds the CSV request for symbols.
func QueryURL(endpoint string, symbols []Symbol) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("stock endpoint: %w", err)
	}
	var codes strings.Builder
	for _, col := range Columns {
		codes.WriteString(FieldCodes[col])
	}
	names := make([]string, len(symbols))
	for i, s := range symbols {
		names[i] = s.Symbol
	}
	q := u.Query()
	q.Set("f", codes.String())
	q.Set("e", ".csv")
	q.Set("s", strings.Join(names, ","))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Parse reads the CSV body into rows keyed by symbol.
func Parse(data []byte) (map[string]Row, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	rows := make(map[string]Row)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &apperr.ParseError{Source: "stock csv", Err: err}
		}
		for len(rec) < len(Columns) {
			rec = append(rec, NA)
		}
		row := Row{
			Symbol: strings.TrimSpace(rec[0]),
			Name:   rec[1],
			Change: strings.TrimSpace(rec[2]),
			High:   strings.TrimSpace(rec[3]),
			Low:    strings.TrimSpace(rec[4]),
			Price:  strings.TrimSpace(rec[5]),
		}
		if row.Symbol == "" {
			continue
		}
		rows[row.Symbol] = row
	}
	return rows, nil
}

// PercentChange is the change relative to the previous close implied by
// price and change.
func PercentChange(price, change float64) float64 {
	prev := price - change
	if prev == 0 {
		return 0
	}
	return change / prev * 100
}

// FormatChange renders an arrow in the up or down color followed by the
// absolute percentage. Zero counts as up.
func FormatChange(pct float64, c Colors) string {
	if pct < 0 {
		return fmt.Sprintf("%s%s%s%.1f%%", markup.Fg(c.Down), markup.DownArrow, markup.Fg(c.Plain), math.Abs(pct))
	}
	return fmt.Sprintf("%s%s%s%.1f%%", markup.Fg(c.Up), markup.UpArrow, markup.Fg(c.Plain), pct)
}

// FormatRange renders how far price sits from its 52-week low and high.
// It is empty when any of the values is zero.
func FormatRange(low, high, price float64, c Colors) string {
	if price == 0 || low == 0 || high == 0 {
		return ""
	}
	return fmt.Sprintf("(52W:%s%+.0f%%%s%+.0f%%%s)",
		markup.Fg(c.Down), (price/low-1)*100,
		markup.Fg(c.Up), (price/high-1)*100,
		markup.Fg(c.Plain))
}

// Entry formats one row, e.g. "Google 500.00<color300>&downarrow;<color110>2.0%".
func Entry(label string, row Row, c Colors, showRange bool) (string, error) {
	price, err := strconv.ParseFloat(row.Price, 64)
	if err != nil {
		return "", apperr.Parsef("stock csv", "%s: price %q", row.Symbol, row.Price)
	}
	change, err := strconv.ParseFloat(row.Change, 64)
	if err != nil {
		return "", apperr.Parsef("stock csv", "%s: change %q", row.Symbol, row.Change)
	}
	if label == "" {
		label = row.Symbol
	}

	out := fmt.Sprintf("%s %.2f%s", label, price, FormatChange(PercentChange(price, change), c))
	if showRange {
		low, lerr := strconv.ParseFloat(row.Low, 64)
		high, herr := strconv.ParseFloat(row.High, 64)
		if lerr == nil && herr == nil {
			out += FormatRange(low, high, price, c)
		}
	}
	return out, nil
}

// Format renders a category: "SET: entry, entry, ...". Symbols missing from
// rows or with unusable numbers are skipped and reported in skipped.
func Format(setName string, symbols []Symbol, rows map[string]Row, c Colors, showRange bool) (line string, skipped []string, err error) {
	var records []string
	for _, s := range symbols {
		row, ok := rows[s.Symbol]
		if !ok {
			skipped = append(skipped, s.Symbol)
			continue
		}
		rec, err := Entry(s.Label, row, c, showRange)
		if err != nil {
			skipped = append(skipped, s.Symbol)
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return "", skipped, apperr.Parsef("stock csv", "no usable quotes for %s", setName)
	}
	return markup.Fg(c.Plain) + setName + ": " + markup.Join(records), skipped, nil
}
